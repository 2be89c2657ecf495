package market

import (
	"fmt"
	"strings"
)

// FormatContext renders the payload as plain text for the consolidation
// prompt. Each variant has its own formatter; the builder never inspects
// payload shapes ad hoc.
func (p *SourcePayload) FormatContext() string {
	if p == nil {
		return ""
	}
	switch {
	case p.News != nil:
		return p.News.formatContext()
	case p.Search != nil:
		return p.Search.formatContext()
	case p.Social != nil:
		return p.Social.formatContext()
	case p.Trends != nil:
		return p.Trends.formatContext()
	case p.Jobs != nil:
		return p.Jobs.formatContext()
	}
	return ""
}

func (p *NewsPayload) formatContext() string {
	var b strings.Builder
	for _, a := range p.Articles {
		fmt.Fprintf(&b, "- [%s] %s (%s, %s): %s\n", a.Query, a.Title, a.Outlet, a.PublishedAt, a.Snippet)
	}
	return b.String()
}

func (p *SearchPayload) formatContext() string {
	var b strings.Builder
	for _, h := range p.Hits {
		fmt.Fprintf(&b, "- [%s #%d] %s: %s\n", h.Query, h.Position, h.Title, h.Snippet)
	}
	return b.String()
}

func (p *SocialPayload) formatContext() string {
	var b strings.Builder
	for _, post := range p.Posts {
		fmt.Fprintf(&b, "- [%s] %q in %s (%d points, %d comments)\n", post.Query, post.Title, post.Community, post.Score, post.Comments)
	}
	return b.String()
}

func (p *TrendsPayload) formatContext() string {
	var b strings.Builder
	for _, s := range p.Trends() {
		if len(s.Points) == 0 {
			continue
		}
		first := s.Points[0]
		last := s.Points[len(s.Points)-1]
		fmt.Fprintf(&b, "- interest %q: %d (%s) -> %d (%s), %d points\n", s.Term, first.Value, first.Date, last.Value, last.Date, len(s.Points))
	}
	for _, r := range p.Related {
		fmt.Fprintf(&b, "- rising query %q (%s)\n", r.Query, r.Value)
	}
	return b.String()
}

// Trends returns the interest series. Accessor kept so the formatter reads
// uniformly with the other variants.
func (p *TrendsPayload) Trends() []TrendSeries { return p.Series }

func (p *JobsPayload) formatContext() string {
	var b strings.Builder
	for _, c := range p.Companies {
		fmt.Fprintf(&b, "- %s: %d open roles", c.Company, c.OpenRoles)
		if len(c.SampleRoles) > 0 {
			titles := make([]string, 0, len(c.SampleRoles))
			for _, r := range c.SampleRoles {
				titles = append(titles, r.Title)
			}
			fmt.Fprintf(&b, " (e.g. %s)", strings.Join(titles, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
