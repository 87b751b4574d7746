package compose

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"blogcms/encoding"
)

// Editor is a live rich-text editor instance. The inserter re-reads the
// selection through this handle when an upload resolves, so the splice
// position reflects edits the author made while the upload was in flight.
type Editor interface {
	// Selection returns the current cursor offset into the document markup,
	// and false when the editor has no selection.
	Selection() (int, bool)
	// Length returns the current markup length, the fallback insert position.
	Length() int
	// InsertImage splices an image embed into the markup at pos.
	InsertImage(pos int, url string)
}

// Document is an in-memory rich-text document: HTML markup plus a cursor.
// It satisfies Editor and is safe for the interleaved-upload case where two
// inserts resolve against the same document.
type Document struct {
	mu        sync.Mutex
	markup    string
	cursor    int
	hasCursor bool
}

func NewDocument(markup string) *Document {
	return &Document{markup: markup}
}

func (d *Document) Markup() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markup
}

// SetSelection places the cursor. Offsets are clamped to the markup bounds.
func (d *Document) SetSelection(pos int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = clamp(pos, len(d.markup))
	d.hasCursor = true
}

func (d *Document) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hasCursor = false
}

func (d *Document) Selection() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor, d.hasCursor
}

func (d *Document) Length() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.markup)
}

// Type appends text at the cursor, moving it, so a user can keep writing
// while an upload is outstanding.
func (d *Document) Type(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pos := len(d.markup)
	if d.hasCursor {
		pos = clamp(d.cursor, len(d.markup))
	}
	d.markup = d.markup[:pos] + text + d.markup[pos:]
	d.cursor = pos + len(text)
	d.hasCursor = true
}

func (d *Document) InsertImage(pos int, url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pos = clamp(pos, len(d.markup))
	embed := ImageEmbed(url)
	d.markup = d.markup[:pos] + embed + d.markup[pos:]
	if d.hasCursor && d.cursor >= pos {
		d.cursor += len(embed)
	}
}

func clamp(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

// ImageEmbed renders the markup node for an inline asset reference. Once
// embedded it is opaque to everything but the editor.
func ImageEmbed(url string) string {
	return fmt.Sprintf(`<img src="%s">`, html.EscapeString(url))
}

// EmbeddedImages extracts inline asset references from body markup. Used
// for diagnostics only; embeds are never rewritten or garbage-collected.
func EmbeddedImages(markup string) []string {
	var urls []string
	rest := markup
	for {
		i := strings.Index(rest, `<img src="`)
		if i < 0 {
			return urls
		}
		rest = rest[i+len(`<img src="`):]
		j := strings.Index(rest, `"`)
		if j < 0 {
			return urls
		}
		urls = append(urls, html.UnescapeString(rest[:j]))
		rest = rest[j:]
	}
}

// FilePicker is the transient, one-shot file prompt backing the editor's
// image command. It is not a form-bound input; each invocation yields at
// most one file.
type FilePicker interface {
	// Pick returns the chosen file's contents, or ok=false when the author
	// dismissed the prompt.
	Pick() (r io.ReadCloser, ok bool, err error)
}

// Inserter runs the inline image workflow: pick, size-check, encode, upload,
// then splice at the position the editor reports when the upload resolves.
type Inserter struct {
	uploader ImageUploader
	maxBytes int64
}

// ImageUploader is the subset of the gateway the inserter needs. Satisfied
// by both upload.Uploader implementations and GatewayClient.
type ImageUploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

func NewInserter(uploader ImageUploader, maxBytes int64) *Inserter {
	return &Inserter{uploader: uploader, maxBytes: maxBytes}
}

// Insert performs one invocation of the editor's image command against ed.
// On any failure the document is left untouched. Overlapping invocations
// are independent: each reads the selection at its own resolution time, so
// concurrent uploads land in arrival order.
func (ins *Inserter) Insert(ctx context.Context, ed Editor, picker FilePicker) error {
	file, ok, err := picker.Pick()
	if err != nil {
		return fmt.Errorf("file picker: %w", err)
	}
	if !ok {
		return nil
	}
	defer file.Close()

	dataURI, err := encoding.EncodeDataURI(file, ins.maxBytes)
	if err != nil {
		return err
	}

	url, err := ins.uploader.Upload(ctx, dataURI)
	if err != nil {
		return err
	}

	// Selection is read here, after the upload resolved, not when the picker
	// opened; the author may have kept typing in the meantime.
	pos, ok := ed.Selection()
	if !ok {
		pos = ed.Length()
	}
	ed.InsertImage(pos, url)
	return nil
}
