package section

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ValidTypes are the accepted section kinds
var ValidTypes = []string{"hero", "about", "projects", "contact", "custom"}

func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Section is one visual block within a portfolio
type Section struct {
	ID          uint64         `json:"id"`
	PortfolioID uint64         `json:"portfolio_id" gorm:"index"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Content     datatypes.JSON `json:"content" gorm:"type:jsonb"`
	Order       int            `json:"order" gorm:"column:sort_order"`
	IsVisible   bool           `json:"is_visible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ImageRef is one inline image attached to a section's content
type ImageRef struct {
	ID   any    `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Content is the structured shape of a section's body. Historically the
// column held either a bare HTML string or this object; both are accepted
// on read and only the structured form is ever written back, so the images
// list survives round-trips.
type Content struct {
	HTML   string     `json:"html"`
	Images []ImageRef `json:"images"`
}

// ParseContent normalizes a raw content column to the structured form
func ParseContent(raw []byte) Content {
	if len(raw) == 0 {
		return Content{Images: []ImageRef{}}
	}

	var structured Content
	if err := json.Unmarshal(raw, &structured); err == nil {
		if structured.Images == nil {
			structured.Images = []ImageRef{}
		}
		return structured
	}

	// legacy shape: a plain JSON string of HTML
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return Content{HTML: plain, Images: []ImageRef{}}
	}

	return Content{Images: []ImageRef{}}
}

// Raw serializes the structured content for storage
func (c Content) Raw() datatypes.JSON {
	if c.Images == nil {
		c.Images = []ImageRef{}
	}
	raw, _ := json.Marshal(c)
	return datatypes.JSON(raw)
}
