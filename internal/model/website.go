package model

// Editable content fields.  These are the only targets a voice or text
// command may change; image_url is only writable through the manual save.
const (
	FieldShopName     = "shop_name"
	FieldDescription  = "description"
	FieldAnnouncement = "announcement"
	FieldImageURL     = "image_url"
)

// Website mirrors a row of the `websites` table.  Each user owns exactly one.
// NULL text columns are surfaced as empty strings.
type Website struct {
	ID           uint64 `json:"id"`
	UserID       uint64 `json:"user_id"`
	ShopName     string `json:"shop_name"`
	Description  string `json:"description"`
	Announcement string `json:"announcement"`
	ImageURL     string `json:"image_url"`
	Views        int64  `json:"views"`
}

// WebsiteFields is a complete set of editable values, written verbatim by
// the manual save path.
type WebsiteFields struct {
	ShopName     string `json:"shop_name"`
	Description  string `json:"description"`
	Announcement string `json:"announcement"`
	ImageURL     string `json:"image_url"`
}

// WebsitePatch carries only the fields a caller wants to change.  Nil
// pointers leave the stored value untouched.
type WebsitePatch struct {
	ShopName     *string
	Description  *string
	Announcement *string
	ImageURL     *string
}

// PatchField builds a patch that sets a single named field.  ok is false for
// names outside the four editable fields.
func PatchField(field, value string) (p WebsitePatch, ok bool) {
	v := value
	switch field {
	case FieldShopName:
		p.ShopName = &v
	case FieldDescription:
		p.Description = &v
	case FieldAnnouncement:
		p.Announcement = &v
	case FieldImageURL:
		p.ImageURL = &v
	default:
		return WebsitePatch{}, false
	}
	return p, true
}

// Empty reports whether the patch changes nothing.
func (p WebsitePatch) Empty() bool {
	return p.ShopName == nil && p.Description == nil && p.Announcement == nil && p.ImageURL == nil
}
