package domain

// Vendor represents a Dokan marketplace store. The same type carries both
// the raw upstream record (Dokan is loose about which of store_name,
// shop_name and name is populated) and the normalized form produced by
// wordpress.NormalizeVendor, which guarantees StoreName and Slug are
// non-empty and Icon never propagates a null.
type Vendor struct {
	ID        int    `json:"id"`
	StoreName string `json:"store_name"`
	ShopName  string `json:"shop_name,omitempty"`
	Name      string `json:"name,omitempty"`
	Slug      string `json:"slug"`
	StoreSlug string `json:"store_slug,omitempty"`

	Address map[string]any `json:"address"`
	Social  map[string]any `json:"social"`
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`

	// Biography is the Dokan vendor biography, HTML-stripped when it was
	// overridden from the WordPress user profile.
	Biography string `json:"dokan_biography"`

	Icon     string `json:"icon"`
	Gravatar string `json:"gravatar,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Banner   string `json:"banner,omitempty"`
	ShopURL  string `json:"shop_url,omitempty"`

	// Activity flags as reported by Dokan. Pointers distinguish "absent"
	// from an explicit false.
	Enabled  *bool  `json:"enabled,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
	Status   string `json:"status,omitempty"`

	// CategorySlug/CategoryName are stamped onto vendors returned from
	// category-scoped listings; StoreImage from the media-search path.
	CategorySlug string `json:"categorySlug,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	StoreImage   string `json:"storeImage,omitempty"`
}

// DisplayName resolves the vendor's display name across the three fields
// Dokan may populate. Empty when none is set.
func (v Vendor) DisplayName() string {
	if v.StoreName != "" {
		return v.StoreName
	}
	if v.ShopName != "" {
		return v.ShopName
	}
	return v.Name
}

// Active reports whether the vendor should be listed publicly.
func (v Vendor) Active() bool {
	if v.Enabled != nil && !*v.Enabled {
		return false
	}
	if v.IsActive != nil && !*v.IsActive {
		return false
	}
	return v.Status != "inactive" && v.Status != "disabled"
}

// WPUser is the raw WordPress user record consumed for vendor enrichment
// (avatar and biography live on the user, not the Dokan store).
type WPUser struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	AvatarURLs  map[string]string `json:"avatar_urls"`

	SimpleLocalAvatar *struct {
		Full string `json:"full"`
	} `json:"simple_local_avatar,omitempty"`
}

// AvatarURL resolves the preferred avatar: the 96px gravatar, else the
// local avatar plugin's full-size image. Empty when neither exists.
func (u WPUser) AvatarURL() string {
	if url, ok := u.AvatarURLs["96"]; ok && url != "" {
		return url
	}
	if u.SimpleLocalAvatar != nil {
		return u.SimpleLocalAvatar.Full
	}
	return ""
}
