package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type lessonInput struct {
	Title     string   `json:"title" validate:"required"`
	Materials []string `json:"materials" validate:"min=1"`
}

type signupInput struct {
	Username string        `json:"username" validate:"required,min=3,max=50,username"`
	Password string        `json:"password" validate:"required,min=6,password"`
	Image    string        `json:"imageUrl" validate:"omitempty,httpurl"`
	Price    float64       `json:"price" validate:"gte=0"`
	Lessons  []lessonInput `json:"lessons" validate:"dive"`
	Internal string        `json:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

func TestCustomRules(t *testing.T) {
	v := newValidator()

	ok := signupInput{Username: "jane_doe1", Password: "Secret1", Image: "https://cdn.example.com/a.png"}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []struct {
		name  string
		in    signupInput
		field string
	}{
		{"username charset", signupInput{Username: "jane-doe", Password: "Secret1"}, "username"},
		{"password no digit", signupInput{Username: "jane", Password: "Secrets"}, "password"},
		{"password no upper", signupInput{Username: "jane", Password: "secret1"}, "password"},
		{"ftp image", signupInput{Username: "jane", Password: "Secret1", Image: "ftp://x/a.png"}, "imageUrl"},
		{"relative image", signupInput{Username: "jane", Password: "Secret1", Image: "/a.png"}, "imageUrl"},
		{"negative price", signupInput{Username: "jane", Password: "Secret1", Price: -1}, "price"},
		{"nested lesson", signupInput{Username: "jane", Password: "Secret1", Lessons: []lessonInput{{Materials: []string{"a"}}}}, "lessons[0].title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details := ToDetails(v.Struct(tc.in))
			if _, found := details[tc.field]; !found {
				t.Fatalf("expected detail for %q, got %v", tc.field, details)
			}
		})
	}
}

func TestToDetailsMessages(t *testing.T) {
	v := newValidator()
	details := ToDetails(v.Struct(signupInput{Username: "ab", Password: "Secret1", Lessons: []lessonInput{{Title: "x"}}}))

	if details["username"] != "must be at least 3 characters long" {
		t.Fatalf("unexpected username message %q", details["username"])
	}
	if details["lessons[0].materials"] != "must contain at least 1 items" {
		t.Fatalf("unexpected materials message %q", details["lessons[0].materials"])
	}
}

func TestToDetailsPayloadErrors(t *testing.T) {
	if ToDetails(nil) != nil {
		t.Fatalf("nil error must produce nil details")
	}

	var target struct {
		Price float64 `json:"price"`
	}
	err := json.Unmarshal([]byte(`{"price":"free"}`), &target)
	if details := ToDetails(err); details["price"] == "" {
		t.Fatalf("expected type error on price, got %v", details)
	}

	err = json.Unmarshal([]byte(`{"price":`), &target)
	if details := ToDetails(err); details["payload"] != "invalid json" {
		t.Fatalf("expected invalid json, got %v", details)
	}

	if details := ToDetails(errors.New("other")); details["payload"] != "invalid payload" {
		t.Fatalf("unexpected fallback %v", details)
	}
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	type input struct {
		Title  string   `json:"title" validate:"required,notblank"`
		Topics []string `json:"topics" validate:"required,min=1,dive,notblank"`
		Note   *string  `json:"note" validate:"omitnil,notblank"`
	}
	v := newValidator()

	blank := "  \t"
	details := ToDetails(v.Struct(input{Title: "   ", Topics: []string{"go", " "}, Note: &blank}))
	for _, field := range []string{"title", "topics[1]", "note"} {
		if details[field] != "must not be blank" {
			t.Fatalf("expected blank message for %q, got %v", field, details)
		}
	}

	if err := v.Struct(input{Title: " Go ", Topics: []string{"go"}}); err != nil {
		t.Fatalf("expected padded and nil values to pass, got %v", err)
	}
}
