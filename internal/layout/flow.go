// Package layout builds simple flowing PDF documents out of paragraphs,
// headings and vertical spacers.
package layout

// Kind is the type of a flow block
type Kind int

// Block kinds
const (
	KindParagraph Kind = iota
	KindHeading
	KindSpacer
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindSpacer:
		return "spacer"
	}
	return "unknown"
}

// Block is one element of the document flow. Height is only meaningful for
// spacers and is expressed in points.
type Block struct {
	Kind   Kind
	Text   string
	Height float64
}

// Flow is an ordered list of blocks laid out top to bottom
type Flow struct {
	Blocks []Block
}

// Paragraph appends a body text block
func (f *Flow) Paragraph(text string) {
	f.Blocks = append(f.Blocks, Block{Kind: KindParagraph, Text: text})
}

// Heading appends a heading block
func (f *Flow) Heading(text string) {
	f.Blocks = append(f.Blocks, Block{Kind: KindHeading, Text: text})
}

// Spacer appends a vertical gap of height points
func (f *Flow) Spacer(height float64) {
	f.Blocks = append(f.Blocks, Block{Kind: KindSpacer, Height: height})
}

// Len returns the number of blocks
func (f *Flow) Len() int {
	return len(f.Blocks)
}
