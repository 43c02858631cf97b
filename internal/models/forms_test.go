package models

import (
	"strings"
	"testing"
)

func TestBookForm(t *testing.T) {
	valid := BookForm{
		Title:   "Dune",
		Content: "spice and sand",
		UserID:  7,
	}

	t.Run("valid form passes", func(t *testing.T) {
		if errs := valid.Validate(); errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("empty title is a field error", func(t *testing.T) {
		form := valid
		form.Title = ""
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if _, ok := errs["title"]; !ok {
			t.Errorf("expected title entry, got %v", errs)
		}
		if _, ok := errs["content"]; ok {
			t.Error("content should not be flagged")
		}
	})

	t.Run("missing user id is a field error", func(t *testing.T) {
		form := valid
		form.UserID = 0
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if _, ok := errs["userId"]; !ok {
			t.Errorf("expected userId entry, got %v", errs)
		}
	})

	t.Run("cover image must be a URL when present", func(t *testing.T) {
		form := valid
		form.CoverImage = "not a url"
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if _, ok := errs["coverImage"]; !ok {
			t.Errorf("expected coverImage entry, got %v", errs)
		}

		form.CoverImage = "https://covers.example.com/dune.jpg"
		if errs := form.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("empty cover image is fine", func(t *testing.T) {
		form := valid
		form.CoverImage = ""
		if errs := form.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
}

func TestLoginForm(t *testing.T) {
	t.Run("requires a well-formed email", func(t *testing.T) {
		form := LoginForm{Email: "not-an-email", Password: "secret"}
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if _, ok := errs["email"]; !ok {
			t.Errorf("expected email entry, got %v", errs)
		}
	})

	t.Run("requires a password", func(t *testing.T) {
		form := LoginForm{Email: "reader@example.com"}
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if _, ok := errs["password"]; !ok {
			t.Errorf("expected password entry, got %v", errs)
		}
	})

	t.Run("valid form passes", func(t *testing.T) {
		form := LoginForm{Email: "reader@example.com", Password: "secret"}
		if errs := form.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{
		Email:    "reader@example.com",
		Name:     "Reader",
		Password: "secret",
	}

	t.Run("valid form passes", func(t *testing.T) {
		if errs := valid.Validate(); errs != nil {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("password must be at least 5 characters", func(t *testing.T) {
		form := valid
		form.Password = "abcd"
		errs := form.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		if msg, ok := errs["password"]; !ok || !strings.Contains(msg, "5") {
			t.Errorf("expected password length message, got %v", errs)
		}
	})

	t.Run("all fields required", func(t *testing.T) {
		errs := RegisterForm{}.Validate()
		if errs == nil {
			t.Fatal("expected validation errors")
		}
		for _, field := range []string{"email", "name", "password"} {
			if _, ok := errs[field]; !ok {
				t.Errorf("expected %s entry, got %v", field, errs)
			}
		}
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{"title": "title is required", "content": "content is required"}
	msg := err.Error()

	if !strings.HasPrefix(msg, "validation failed: ") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	// Fields render in sorted order so the message is stable.
	if strings.Index(msg, "content") > strings.Index(msg, "title") {
		t.Errorf("fields not sorted: %q", msg)
	}
}
