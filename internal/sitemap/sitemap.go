package sitemap

import (
	"encoding/xml"
	"strings"

	"chiva/internal/domain"
)

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Build renders the sitemap from active categories and visible products.
func Build(baseURL string, cats []domain.Category, prods []domain.Product) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	set := urlset{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs,
		url{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
	)
	for _, c := range cats {
		set.URLs = append(set.URLs, url{
			Loc:        base + "/categoria/" + c.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, p := range prods {
		set.URLs = append(set.URLs, url{
			Loc:        base + "/produto/" + p.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
