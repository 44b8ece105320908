package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	ErrInvalidEditedHTML = errors.New("edited CV must contain exactly one root element")
	ErrSkillPillNotFound = errors.New("skill pill not found")
)

// NormalizeEditedHTML checks that a directly edited CV still has a single root
// element and returns it re-serialized.
func NormalizeEditedHTML(fragment string) (string, error) {
	body, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	elements, strayText := countRoots(body)
	if elements != 1 || strayText {
		return "", fmt.Errorf("%w: found %d", ErrInvalidEditedHTML, elements)
	}
	return renderFragment(body)
}

// SkillPills lists the text of every deletable skill pill in document order.
func SkillPills(fragment string) ([]string, error) {
	body, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	var pills []string
	body.Find("." + SkillPillClass).Each(func(_ int, s *goquery.Selection) {
		pills = append(pills, strings.TrimSpace(s.Text()))
	})
	return pills, nil
}

// RemoveSkillPill deletes the pill at index and returns the updated HTML.
func RemoveSkillPill(fragment string, index int) (string, error) {
	body, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	pills := body.Find("." + SkillPillClass)
	if index < 0 || index >= pills.Length() {
		return "", fmt.Errorf("%w: index %d of %d", ErrSkillPillNotFound, index, pills.Length())
	}
	pills.Eq(index).Remove()
	return renderFragment(body)
}

func parseFragment(fragment string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc.Find("body"), nil
}

// countRoots counts element children of body and reports non-blank text
// sitting beside them.
func countRoots(body *goquery.Selection) (elements int, strayText bool) {
	body.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		switch node.Type {
		case html.ElementNode:
			elements++
		case html.TextNode:
			if strings.TrimSpace(node.Data) != "" {
				strayText = true
			}
		}
	})
	return elements, strayText
}

func renderFragment(body *goquery.Selection) (string, error) {
	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}
