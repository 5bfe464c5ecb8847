package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iliyamo/vaani/internal/model"
)

func TestNew_DefinesEveryPage(t *testing.T) {
	if _, err := New(); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestRender_PublicEscapesContent(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	data := PublicData{Username: "meera", Website: model.Website{
		ShopName:     "Meera's Flowers",
		Description:  "<script>alert(1)</script>",
		Announcement: "Closed Sunday",
		Views:        3,
	}}
	if err := r.Render(&buf, PagePublic, data, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("description not escaped")
	}
	for _, want := range []string{"Meera&#39;s Flowers", "Closed Sunday", "3 views"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestPlaceholderWebsite(t *testing.T) {
	w := PlaceholderWebsite("meera")
	if w.ShopName != "meera's Website" || w.Description != "Welcome to my website!" || w.Views != 0 {
		t.Fatalf("placeholder = %+v", w)
	}
}

func TestRender_DashboardPrefillsFields(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	data := DashboardData{Username: "meera", PublicURL: "/public/meera", Website: model.Website{ShopName: "Blooms"}}
	if err := r.Render(&buf, PageDashboard, data, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), `value="Blooms"`) || !strings.Contains(buf.String(), "/public/meera") {
		t.Fatalf("dashboard missing content")
	}
}
