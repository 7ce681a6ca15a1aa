
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"sankara-chandas/internal/models"
)

// BodySelector marks one verse block on a text page.
const BodySelector = ".views-field-body"

var ErrNoSelector = errors.New("text selector not found")

type Parser struct{}

func New() *Parser { return &Parser{} }

// Menu is the text selector of a listing page.
type Menu struct {
	Name    string // query parameter the selector submits as
	Options []models.Option
}

// Page is the verse content of one text page.
type Page struct {
	Name string
	Body []string
}

func (p *Parser) document(data []byte, contentType string) (*goquery.Document, error) {
	// Decode to UTF-8 if needed
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
}

// Menu reads the <select id=selectID> of a listing page.
func (p *Parser) Menu(data []byte, contentType, selectID string) (Menu, error) {
	doc, err := p.document(data, contentType)
	if err != nil {
		return Menu{}, err
	}
	return menu(doc, selectID)
}

func menu(doc *goquery.Document, selectID string) (Menu, error) {
	sel := doc.Find("#" + selectID).First()
	if sel.Length() == 0 {
		return Menu{}, fmt.Errorf("%w: #%s", ErrNoSelector, selectID)
	}
	m := Menu{Name: sel.AttrOr("name", "")}
	sel.Find("option").Each(func(i int, s *goquery.Selection) {
		v, ok := s.Attr("value")
		if !ok {
			v = strings.TrimSpace(s.Text())
		}
		_, selected := s.Attr("selected")
		m.Options = append(m.Options, models.Option{
			Value:    v,
			Label:    strings.TrimSpace(s.Text()),
			Selected: selected,
		})
	})
	return m, nil
}

// Verses extracts the selected text's title and its verse blocks. Line
// breaks inside a block are kept, so the block can later be split into lines.
func (p *Parser) Verses(data []byte, contentType, selectID string) (Page, error) {
	doc, err := p.document(data, contentType)
	if err != nil {
		return Page{}, err
	}
	var page Page
	if m, err := menu(doc, selectID); err == nil {
		for _, o := range m.Options {
			if o.Selected {
				page.Name = o.Label
				break
			}
		}
		if page.Name == "" && len(m.Options) > 0 {
			page.Name = m.Options[0].Label
		}
	}
	if page.Name == "" {
		page.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("script,noscript,style").Remove()
	doc.Find(BodySelector).Each(func(i int, s *goquery.Selection) {
		breakLines(s)
		page.Body = append(page.Body, strings.TrimSpace(s.Text()))
	})
	return page, nil
}

// breakLines turns <br> into a newline unless the markup already has one
// right after it.
func breakLines(s *goquery.Selection) {
	s.Find("br").Each(func(i int, br *goquery.Selection) {
		next := br.Nodes[0].NextSibling
		if next != nil && next.Type == html.TextNode && strings.HasPrefix(strings.TrimLeft(next.Data, " \t\r"), "\n") {
			br.Remove()
			return
		}
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})
}
