package bio

import (
	"context"
	"testing"
)

func TestSeedFromExtractionCreatesBioWithSocials(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	seed := Seed{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "555-1234",
		Location:  "Austin, TX",
		Summary:   "Engineer.",
		Socials: []SocialProfile{
			{Network: "LinkedIn", URL: "https://linkedin.com/in/janedoe"},
			{Network: "", URL: "https://ignored.example.com"},
		},
	}
	b, err := svc.SeedFromExtraction(context.Background(), "user-1", seed)
	if err != nil {
		t.Fatalf("SeedFromExtraction: %v", err)
	}
	if b.FirstName != "Jane" || b.CurrentCity != "Austin" || b.CurrentState != "TX" {
		t.Fatalf("unexpected bio: %+v", b)
	}
	if len(b.Socials) != 1 {
		t.Fatalf("expected 1 social profile, got %d", len(b.Socials))
	}
}

func TestSeedFromExtractionKeepsExistingBio(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	first, err := svc.SeedFromExtraction(context.Background(), "user-1", Seed{FirstName: "Jane"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := svc.SeedFromExtraction(context.Background(), "user-1", Seed{FirstName: "Changed"})
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if second.ID != first.ID || second.FirstName != "Jane" {
		t.Fatalf("existing bio should be untouched: %+v", second)
	}
}

func TestSaveSocialReplacesSameNetwork(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.SeedFromExtraction(context.Background(), "user-1", Seed{FirstName: "Jane"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.SaveSocial(context.Background(), "user-1", SocialProfile{Network: "GitHub", URL: "https://github.com/old"}); err != nil {
		t.Fatalf("SaveSocial: %v", err)
	}
	if _, err := svc.SaveSocial(context.Background(), "user-1", SocialProfile{Network: "github", URL: "https://github.com/new"}); err != nil {
		t.Fatalf("SaveSocial: %v", err)
	}

	b, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(b.Socials) != 1 {
		t.Fatalf("expected network upsert, got %d profiles", len(b.Socials))
	}
	if b.Socials[0].URL != "https://github.com/new" {
		t.Fatalf("expected replaced url, got %s", b.Socials[0].URL)
	}
}
