package model

import "testing"

func TestPatchField(t *testing.T) {
	p, ok := PatchField(FieldAnnouncement, "Open on weekends")
	if !ok {
		t.Fatalf("announcement should be patchable")
	}
	if p.Announcement == nil || *p.Announcement != "Open on weekends" {
		t.Fatalf("unexpected patch: %+v", p)
	}
	if p.ShopName != nil || p.Description != nil || p.ImageURL != nil {
		t.Fatalf("patch touched other fields: %+v", p)
	}

	if _, ok := PatchField("views", "100"); ok {
		t.Fatalf("views must not be patchable")
	}
	if !(WebsitePatch{}).Empty() || p.Empty() {
		t.Fatalf("Empty() mismatch")
	}
}
