package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/core/domain"
)

func TestNew_RegistersEveryView(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{
		"index",
		"account/login", "account/register", "account/management", "account/update",
		"inventory/classification", "inventory/detail", "inventory/management",
		"inventory/add-classification", "inventory/add-inventory", "inventory/edit-inventory",
		"inventory/delete-confirm",
		"favorites/list",
		"errors/error",
	} {
		if !r.Has(name) {
			t.Errorf("missing view %q", name)
		}
	}
	if r.Has("vehicle-fields") {
		t.Errorf("partials must not be registered as views")
	}
}

func TestRender_LoginKeepsEmailAndShowsNotice(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, "account/login", echo.Map{
		"title":         "Login",
		"identity":      domain.Anonymous,
		"notices":       []string{"Please check your credentials and try again."},
		"errors":        domain.FieldErrors(nil),
		"account_email": "ada@example.com",
	}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<title>Login | CSE Motors</title>", `value="ada@example.com"`, "Please check your credentials and try again."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRender_FieldErrorsAndEscaping(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, "account/register", echo.Map{
		"title":             "Register",
		"identity":          domain.Anonymous,
		"errors":            domain.FieldErrors{"account_password": "Password does not meet requirements."},
		"account_firstname": `<script>alert(1)</script>`,
	}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Password does not meet requirements.") {
		t.Errorf("expected field error in output")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Errorf("sticky values must be escaped")
	}
}

func TestRender_DetailFormatsPrice(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, "inventory/detail", echo.Map{
		"title":    "2019 Jeep Wrangler",
		"identity": domain.Identity{LoggedIn: true, AccountID: 1, FirstName: "Ada", Role: domain.RoleClient},
		"vehicle":  &domain.Vehicle{ID: 3, Make: "Jeep", Model: "Wrangler", Price: 28045, Miles: 41205},
		"favorite": true,
	}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"$28,045", "41,205", "Remove from favorites", "Welcome Ada"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRender_UnknownView(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "nope", nil, nil); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}
