package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-builder/internal/section"
)

// UploadFunc stores an image file somewhere reachable and returns its URL
type UploadFunc func(ctx context.Context, filename string, r io.Reader) (string, error)

// upload status values reported while an image insertion is in progress
type UploadStatus string

const (
	StatusIdle      UploadStatus = ""
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
)

// statusTTL is how long a terminal upload status stays visible
const statusTTL = 3 * time.Second

// ErrFinished is returned by every mutation attempted after Done
var ErrFinished = errors.New("editor already finished")

// ErrBadSelection is returned when a selection range falls outside the draft
var ErrBadSelection = errors.New("selection out of range")

// block formats accepted by FormatBlock
var blockTags = map[string]bool{"p": true, "h1": true, "h2": true, "h3": true, "blockquote": true}

// alignments accepted by Align
var alignments = map[string]bool{"left": true, "center": true, "right": true, "justify": true}

// RichText edits one section's content as an HTML draft, detached from the
// section until Done hands the result back. The draft is a flat HTML
// string with an explicit selection range; every command either wraps the
// selection or inserts a fragment at the caret. The HTML is trusted as-is,
// rendering it safely is the consumer's concern.
type RichText struct {
	draft  string
	images []section.ImageRef

	// selection as byte offsets into draft; equal means a caret
	selStart int
	selEnd   int

	upload   UploadFunc
	status   UploadStatus
	statusAt time.Time
	now      func() time.Time

	finished bool
}

// NewRichText opens an editor over a section's current content. The images
// list is copied so the source section stays untouched until Done.
func NewRichText(content section.Content, upload UploadFunc) *RichText {
	images := make([]section.ImageRef, len(content.Images))
	copy(images, content.Images)
	return &RichText{
		draft:    content.HTML,
		images:   images,
		selStart: len(content.HTML),
		selEnd:   len(content.HTML),
		upload:   upload,
		now:      time.Now,
	}
}

// Draft returns the current HTML
func (e *RichText) Draft() string { return e.draft }

// Images returns the image list accumulated so far
func (e *RichText) Images() []section.ImageRef {
	out := make([]section.ImageRef, len(e.images))
	copy(out, e.images)
	return out
}

// Status reports the current upload state. Terminal states decay back to
// idle after a few seconds; the decay is cosmetic.
func (e *RichText) Status() UploadStatus {
	if e.status == StatusSuccess || e.status == StatusError {
		if e.now().Sub(e.statusAt) > statusTTL {
			return StatusIdle
		}
	}
	return e.status
}

// Select sets the active range. start == end places a bare caret.
func (e *RichText) Select(start, end int) error {
	if e.finished {
		return ErrFinished
	}
	if start < 0 || end < start || end > len(e.draft) {
		return ErrBadSelection
	}
	e.selStart, e.selEnd = start, end
	return nil
}

// SelectAll extends the selection over the whole draft
func (e *RichText) SelectAll() error {
	return e.Select(0, len(e.draft))
}

func (e *RichText) Bold() error      { return e.wrap("<b>", "</b>") }
func (e *RichText) Italic() error    { return e.wrap("<i>", "</i>") }
func (e *RichText) Underline() error { return e.wrap("<u>", "</u>") }

func (e *RichText) Subscript() error   { return e.wrap("<sub>", "</sub>") }
func (e *RichText) Superscript() error { return e.wrap("<sup>", "</sup>") }

// BulletList wraps the selection as a one-item unordered list
func (e *RichText) BulletList() error {
	return e.wrap("<ul><li>", "</li></ul>")
}

// FormatBlock wraps the selection in a block tag: p, h1, h2, h3 or
// blockquote.
func (e *RichText) FormatBlock(tag string) error {
	if !blockTags[tag] {
		return fmt.Errorf("unsupported block tag %q", tag)
	}
	return e.wrap("<"+tag+">", "</"+tag+">")
}

// Align wraps the selection in a text-align container
func (e *RichText) Align(alignment string) error {
	if !alignments[alignment] {
		return fmt.Errorf("unsupported alignment %q", alignment)
	}
	return e.wrap(fmt.Sprintf(`<div style="text-align: %s;">`, alignment), "</div>")
}

// FontName applies a font family to the selection
func (e *RichText) FontName(family string) error {
	return e.wrap(fmt.Sprintf(`<span style="font-family: %s;">`, family), "</span>")
}

// FontSize applies a pixel size to the selection
func (e *RichText) FontSize(px int) error {
	return e.wrap(fmt.Sprintf(`<span style="font-size: %dpx;">`, px), "</span>")
}

// ForeColor applies a text color to the selection
func (e *RichText) ForeColor(color string) error {
	return e.wrap(fmt.Sprintf(`<span style="color: %s;">`, color), "</span>")
}

// Highlight applies a background color to the selection
func (e *RichText) Highlight(color string) error {
	return e.wrap(fmt.Sprintf(`<span style="background-color: %s;">`, color), "</span>")
}

// Link turns the selection into an anchor. An empty URL is a no-op, as a
// dismissed prompt is.
func (e *RichText) Link(url string) error {
	if e.finished {
		return ErrFinished
	}
	if url == "" {
		return nil
	}
	return e.wrap(fmt.Sprintf(`<a href="%s">`, url), "</a>")
}

// CodeBlock inserts an empty pre/code scaffold at the caret
func (e *RichText) CodeBlock() error {
	return e.insert("<pre><code>// your code here</code></pre>")
}

// Blockquote wraps the selection as a quotation
func (e *RichText) Blockquote() error {
	return e.FormatBlock("blockquote")
}

// Table inserts a starter 2x2 table at the caret
func (e *RichText) Table() error {
	var b strings.Builder
	b.WriteString(`<table border="1" style="border-collapse: collapse; width: 100%; margin-top: 4px;">`)
	cell := 1
	for row := 0; row < 2; row++ {
		b.WriteString("<tr>")
		for col := 0; col < 2; col++ {
			fmt.Fprintf(&b, `<td style="padding:4px;">Cell %d</td>`, cell)
			cell++
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return e.insert(b.String())
}

// Emoji inserts the given emoji at the caret
func (e *RichText) Emoji(emoji string) error {
	return e.insert(emoji)
}

// InsertHTML places a raw fragment at the caret, replacing the selection
func (e *RichText) InsertHTML(fragment string) error {
	return e.insert(fragment)
}

// InsertImage uploads the file through the injected capability and, only
// on success, drops an inline img at the caret and records the image in
// the section's list. Nothing is inserted on failure. Drag-and-drop goes
// through this same path.
func (e *RichText) InsertImage(ctx context.Context, filename string, r io.Reader) error {
	if e.finished {
		return ErrFinished
	}
	if e.upload == nil {
		return errors.New("no upload capability configured")
	}

	e.setStatus(StatusUploading)
	url, err := e.upload(ctx, filename, r)
	if err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("image upload: %w", err)
	}

	e.images = append(e.images, section.ImageRef{
		ID:   uuid.NewString(),
		URL:  url,
		Name: filename,
	})
	if err := e.insert(fmt.Sprintf(`<img src="%s" style="max-width: 100%%; border-radius: 4px; margin-top: 4px;" />`, url)); err != nil {
		return err
	}
	e.setStatus(StatusSuccess)
	return nil
}

// Done seals the editor and returns the content to hand to the section
// update. Every later call fails with ErrFinished.
func (e *RichText) Done() (section.Content, error) {
	if e.finished {
		return section.Content{}, ErrFinished
	}
	e.finished = true
	return section.Content{HTML: e.draft, Images: e.Images()}, nil
}

func (e *RichText) setStatus(s UploadStatus) {
	e.status = s
	e.statusAt = e.now()
}

// wrap surrounds the selection with prefix and suffix. A bare caret gets
// the empty pair inserted, with the caret left between the tags so typed
// text lands inside.
func (e *RichText) wrap(prefix, suffix string) error {
	if e.finished {
		return ErrFinished
	}
	selected := e.draft[e.selStart:e.selEnd]
	e.draft = e.draft[:e.selStart] + prefix + selected + suffix + e.draft[e.selEnd:]
	if e.selStart == e.selEnd {
		caret := e.selStart + len(prefix)
		e.selStart, e.selEnd = caret, caret
	} else {
		end := e.selStart + len(prefix) + len(selected) + len(suffix)
		e.selStart, e.selEnd = end, end
	}
	return nil
}

// insert replaces the selection with the fragment and collapses the caret
// after it
func (e *RichText) insert(fragment string) error {
	if e.finished {
		return ErrFinished
	}
	e.draft = e.draft[:e.selStart] + fragment + e.draft[e.selEnd:]
	caret := e.selStart + len(fragment)
	e.selStart, e.selEnd = caret, caret
	return nil
}
