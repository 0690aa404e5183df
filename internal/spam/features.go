// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package spam

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-hook-gate/models"
	"golang.org/x/net/html"
)

// spamKeywords are the cheap lexical signals counted by the first pass.
// The list mixes Portuguese and English because the upstream traffic does.
var spamKeywords = []string{
	"grátis", "gratis", "gratuito", "free",
	"clique", "click", "urgente", "urgent",
	"desconto", "promoção", "oferta", "ganhe",
	"parabéns", "congratulations", "premio", "prize",
}

var (
	urlHostPattern  = regexp.MustCompile(`https?://([^/]+)`)
	nonDigitPattern = regexp.MustCompile(`[^\d]`)
)

// ExtractFeatures computes the fast signals for one email body. The body
// may be HTML or plain text; a parse failure degrades to treating the whole
// body as text rather than failing the classification.
func ExtractFeatures(body, subject string) models.EmailFeatures {
	text := body
	var (
		urlCount, imgCount, trackingPixels int
		domains                            = make(map[string]struct{})
	)

	doc, err := html.Parse(strings.NewReader(body))
	if err == nil {
		var textParts []string
		var walk func(n *html.Node)
		walk = func(n *html.Node) {
			switch {
			case n.Type == html.TextNode:
				if t := strings.TrimSpace(n.Data); t != "" {
					textParts = append(textParts, t)
				}
			case n.Type == html.ElementNode && n.Data == "a":
				if href := attr(n, "href"); href != "" {
					urlCount++
					if m := urlHostPattern.FindStringSubmatch(href); m != nil {
						domains[m[1]] = struct{}{}
					}
				}
			case n.Type == html.ElementNode && n.Data == "img":
				imgCount++
				if pixelSized(attr(n, "width")) && pixelSized(attr(n, "height")) {
					trackingPixels++
				}
			case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
				return // invisible content is not email text
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)
		text = strings.Join(textParts, " ")
	}

	textRunes := []rune(text)
	upper := 0
	for _, r := range textRunes {
		if unicode.IsUpper(r) {
			upper++
		}
	}

	textLower := strings.ToLower(text)
	keywordCount := 0
	for _, kw := range spamKeywords {
		if strings.Contains(textLower, kw) {
			keywordCount++
		}
	}

	preview := text
	if len(textRunes) > 200 {
		preview = string(textRunes[:200])
	}

	return models.EmailFeatures{
		URLCount:         urlCount,
		ImgCount:         imgCount,
		UniqueDomains:    len(domains),
		TrackingPixels:   trackingPixels,
		HTMLTextRatio:    float64(len(body)) / float64(max(len(text), 1)),
		SpamKeywordCount: keywordCount,
		CapsRatio:        float64(upper) / float64(max(len(textRunes), 1)),
		ExclamationCount: strings.Count(text, "!"),
		Subject:          subject,
		TextPreview:      preview,
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// pixelSized reports whether a width/height attribute resolves to <= 1,
// the classic tracking-pixel signature. Units and junk are stripped so
// "1px" and `"1"` both count; a missing dimension counts as 0.
func pixelSized(v string) bool {
	digits := nonDigitPattern.ReplaceAllString(v, "")
	if digits == "" {
		return true
	}
	n, err := strconv.Atoi(digits)
	return err == nil && n <= 1
}
