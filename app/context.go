package app

import (
	"fmt"
	"strings"

	mdast "github.com/gomarkdown/markdown/ast"
	mdparser "github.com/gomarkdown/markdown/parser"

	"brandintel/domain/market"
)

// maxSourceChars caps one source's contribution to the consolidation
// context. Total context size stays bounded regardless of how much a single
// provider returned.
const maxSourceChars = 8000

// noExternalDataMarker is emitted in place of content when no source
// produced any data, so the collaborator is told explicitly instead of
// receiving an empty prompt.
const noExternalDataMarker = "[no external data collected]"

// buildContext assembles every persisted raw payload, plus optional manual
// notes and internal strategic context, into one bounded textual context.
func buildContext(study *market.MarketStudy) string {
	var b strings.Builder

	wrote := false
	for _, sourceID := range market.KnownSources() {
		payload, ok := study.RawData[sourceID]
		if !ok || payload == nil {
			continue
		}
		text := strings.TrimSpace(payload.FormatContext())
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s\n%s\n\n", sourceID, truncateSource(text))
		wrote = true
	}
	if !wrote {
		b.WriteString(noExternalDataMarker + "\n\n")
	}

	if notes := strings.TrimSpace(study.ManualNotes); notes != "" {
		fmt.Fprintf(&b, "### manual\n%s\n\n", truncateSource(markdownToText(notes)))
	}
	if internal := strings.TrimSpace(study.InternalContext); internal != "" {
		fmt.Fprintf(&b, "### internal strategy context\n%s\n\n", truncateSource(internal))
	}

	return strings.TrimSpace(b.String())
}

func truncateSource(text string) string {
	if len(text) <= maxSourceChars {
		return text
	}
	return text[:maxSourceChars] + "\n[truncated]"
}

// markdownToText strips markdown structure from manually entered notes,
// keeping only the readable text for the prompt.
func markdownToText(md string) string {
	p := mdparser.New()
	doc := p.Parse([]byte(md))

	var b strings.Builder
	mdast.WalkFunc(doc, func(node mdast.Node, entering bool) mdast.WalkStatus {
		if !entering {
			return mdast.GoToNext
		}
		switch n := node.(type) {
		case *mdast.Text:
			b.Write(n.Literal)
		case *mdast.Code:
			b.Write(n.Literal)
		case *mdast.Paragraph, *mdast.Heading, *mdast.ListItem:
			if b.Len() > 0 {
				b.WriteString("\n")
			}
		}
		return mdast.GoToNext
	})

	return strings.TrimSpace(b.String())
}
