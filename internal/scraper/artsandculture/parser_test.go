package artsandculture

import (
	"net/url"
	"strings"
	"testing"

	"ArtScraper/internal/loader"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const categoryHTML = `<html><body>
<nav><a href="/explore">Explore</a><a href="/category/artist">Artists</a></nav>
<ul>
  <li><a href="/entity/claude-monet/m01xnj?categoryId=artist">
        <span>Claude Monet</span>
        <span>2,154 items</span></a></li>
  <li><a href="https://artsandculture.google.com/entity/frida-kahlo/m0d_nf" aria-label="Frida Kahlo"><div style="background-image:url(//lh3.googleusercontent.com/fk)"></div></a></li>
  <li><a href="/entity/empty/m000"></a></li>
  <li><a href="/entity/claude-monet/m01xnj?categoryId=artist">Claude Monet</a></li>
</ul>
</body></html>`

const artistHTML = `<html><body>
<h1>Claude Monet</h1>
<div class="works">
  <a href="/asset/water-lilies/AgHgVuFZ3yqL0g"><img src="https://lh3.googleusercontent.com/wl=s200" alt="Water Lilies">Water Lilies</a>
  <a href="/asset/impression-sunrise/BQFr3gHtnL8Rvw" title="Impression, Sunrise"><img data-src="//lh3.googleusercontent.com/is"></a>
  <a href="/asset/haystacks/CxG1"><div style="background-image: url('https://lh3.googleusercontent.com/hs=s200')"></div>Haystacks</a>
  <a href="/asset/untitled/Dm0"><img src="data:image/gif;base64,R0lGOD"></a>
  <a href="/entity/edouard-manet/m01w0h">Édouard Manet</a>
  <a href="#top">Back to top</a>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func testBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://artsandculture.google.com")
	require.NoError(t, err)
	return u
}

func TestParseArtists(t *testing.T) {
	records := ParseArtists(mustDoc(t, categoryHTML), testBase(t), "/entity/")

	require.Equal(t, []loader.Record{
		{"name": "Claude Monet 2,154 items", "link": "https://artsandculture.google.com/entity/claude-monet/m01xnj?categoryId=artist"},
		{"name": "Frida Kahlo", "link": "https://artsandculture.google.com/entity/frida-kahlo/m0d_nf"},
		{"name": "Claude Monet", "link": "https://artsandculture.google.com/entity/claude-monet/m01xnj?categoryId=artist"},
	}, records)

	// duplicates by link collapse to the first one seen
	artists := recordsToArtists(loader.Dedup(records, loader.KeyField("link")))
	require.Len(t, artists, 2)
	require.Equal(t, "Frida Kahlo", artists[1].Name)
}

func TestParseArtworks(t *testing.T) {
	records := ParseArtworks(mustDoc(t, artistHTML), testBase(t), "/asset/")

	require.Equal(t, []loader.Record{
		{"title": "Water Lilies", "url": "https://artsandculture.google.com/asset/water-lilies/AgHgVuFZ3yqL0g", "image": "https://lh3.googleusercontent.com/wl=s200"},
		{"title": "Impression, Sunrise", "url": "https://artsandculture.google.com/asset/impression-sunrise/BQFr3gHtnL8Rvw", "image": "https://lh3.googleusercontent.com/is"},
		{"title": "Haystacks", "url": "https://artsandculture.google.com/asset/haystacks/CxG1", "image": "https://lh3.googleusercontent.com/hs=s200"},
	}, records)
}

func TestRecordsToArtworksDropsInvalid(t *testing.T) {
	artworks := recordsToArtworks([]loader.Record{
		{"title": "Work1", "url": "http://x/a/1"},
		{"title": "", "url": "http://x/a/2"},
		{"title": "No URL"},
	})
	require.Len(t, artworks, 1)
	require.Equal(t, "Work1", artworks[0].Title)
	require.Empty(t, artworks[0].Image)
}
