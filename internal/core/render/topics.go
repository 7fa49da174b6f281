package render

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"dumpx/internal/core/normalize"
	"dumpx/internal/core/post"
)

// Topics renders one numbered Topic per record
//
//	<Topics>
//	  <Topic number="A.1">
//	    <Title>..</Title>
//	    <Question><Body>..</Body><Score>..</Score><Tags>a,b</Tags></Question>
//	  </Topic>
//	</Topics>
//
// The inner block is named after the post type (Question, Answer, or Post)
type Topics struct {
	Prefix  string
	Indent  bool
	Compact bool
}

// Name implements Renderer
func (t *Topics) Name() string { return FormatTopics }

// Render implements Renderer
func (t *Topics) Render(w io.Writer, recs []*post.Record) error {
	enc, err := encoder(w, t.Indent)
	if err != nil {
		return outputErr(err, FormatTopics)
	}

	root := start("Topics")
	if err := enc.EncodeToken(root); err != nil {
		return outputErr(err, FormatTopics)
	}
	for i, r := range recs {
		if err := t.topic(enc, i+1, r); err != nil {
			return outputErr(err, FormatTopics)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return outputErr(err, FormatTopics)
	}
	if err := finish(w, enc); err != nil {
		return outputErr(err, FormatTopics)
	}
	return nil
}

// Number returns the label of the n-th topic (1-based)
func (t *Topics) Number(n int) string {
	p := t.Prefix
	if p == "" {
		p = "A"
	}
	return p + "." + strconv.Itoa(n)
}

func (t *Topics) topic(enc *xml.Encoder, n int, r *post.Record) error {
	s := start("Topic", xml.Attr{Name: xml.Name{Local: "number"}, Value: t.Number(n)})
	if err := enc.EncodeToken(s); err != nil {
		return err
	}
	if err := textElement(enc, "Title", t.text(r.Title)); err != nil {
		return err
	}

	block := start(blockName(r.Type))
	if err := enc.EncodeToken(block); err != nil {
		return err
	}
	if err := textElement(enc, "Body", t.text(r.Body)); err != nil {
		return err
	}
	if err := textElement(enc, "Score", strconv.Itoa(r.Score)); err != nil {
		return err
	}
	if err := textElement(enc, "Tags", normalize.XMLText(strings.Join(r.Tags, ","))); err != nil {
		return err
	}
	if err := enc.EncodeToken(block.End()); err != nil {
		return err
	}
	return enc.EncodeToken(s.End())
}

func (t *Topics) text(s string) string {
	s = normalize.XMLText(s)
	if t.Compact {
		s = strings.Join(strings.Fields(s), " ")
	}
	return s
}

func blockName(pt post.Type) string {
	switch pt {
	case post.TypeQuestion, post.TypeAnswer:
		return pt.String()
	default:
		return "Post"
	}
}
