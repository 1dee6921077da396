package sitemap

import (
	"strings"
	"testing"

	"chiva/internal/domain"
)

func TestBuild(t *testing.T) {
	out, err := Build("http://shop.test/",
		[]domain.Category{{Slug: "vestidos"}},
		[]domain.Product{{Slug: "vestido-azul"}})
	if err != nil {
		t.Fatal(err)
	}
	xml := string(out)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Fatalf("missing declaration:\n%s", xml)
	}
	if !strings.Contains(xml, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatal("missing namespace")
	}
	for _, want := range []string{
		"<loc>http://shop.test/</loc>",
		"<loc>http://shop.test/categoria/vestidos</loc>",
		"<loc>http://shop.test/produto/vestido-azul</loc>",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("missing %s:\n%s", want, xml)
		}
	}
	// trailing slash on the base must not double up
	if strings.Contains(xml, "shop.test//") {
		t.Fatalf("double slash:\n%s", xml)
	}
}
