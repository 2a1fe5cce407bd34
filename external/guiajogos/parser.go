package guiajogos

import (
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/riskibarqy/matchcast/internal/domain/broadcast"
	"github.com/riskibarqy/matchcast/internal/platform/normalize"
)

const (
	broadcastLabel = "Transmissão:"
	venueLabel     = "Estádio:"
	localTimeLabel = "(Horário Local)"
	notInformed    = "Não informado"
)

// Selectors locate the fields of one match card on the listing page. They
// track the site's markup and are overridable from configuration.
type Selectors struct {
	Card        string
	HomeName    string
	AwayName    string
	Competition string
	Details     string
	Paragraph   string
	GameTime    string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Card:        ".card",
		HomeName:    ".team-a .team-name",
		AwayName:    ".team-b .team-name",
		Competition: "h3.championship-name",
		Details:     ".card-body .details",
		Paragraph:   "p",
		GameTime:    ".game-time span",
	}
}

func (s Selectors) withDefaults() Selectors {
	defaults := DefaultSelectors()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&s.Card, defaults.Card)
	fill(&s.HomeName, defaults.HomeName)
	fill(&s.AwayName, defaults.AwayName)
	fill(&s.Competition, defaults.Competition)
	fill(&s.Details, defaults.Details)
	fill(&s.Paragraph, defaults.Paragraph)
	fill(&s.GameTime, defaults.GameTime)
	return s
}

// Parse extracts one candidate per card that names both teams.
func Parse(r io.Reader, selectors Selectors, scrapedAt time.Time) ([]broadcast.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	selectors = selectors.withDefaults()

	out := make([]broadcast.Candidate, 0, 32)
	doc.Find(selectors.Card).Each(func(_ int, card *goquery.Selection) {
		candidate, ok := parseCard(card, selectors)
		if !ok {
			return
		}
		candidate.ScrapedAt = scrapedAt
		out = append(out, candidate)
	})
	return out, nil
}

func parseCard(card *goquery.Selection, selectors Selectors) (broadcast.Candidate, bool) {
	home := normalize.CleanTeamName(text(card.Find(selectors.HomeName)))
	away := normalize.CleanTeamName(text(card.Find(selectors.AwayName)))
	if home == "" || away == "" {
		return broadcast.Candidate{}, false
	}

	gameTime := text(card.Find(selectors.GameTime))
	kickoff := notInformed
	if gameTime != "" {
		kickoff = strings.TrimSpace(strings.ReplaceAll(gameTime, localTimeLabel, ""))
	}

	return broadcast.Candidate{
		HomeName:      home,
		AwayName:      away,
		VenueName:     labelled(card.Find(selectors.Paragraph), venueLabel),
		BroadcastText: broadcastText(card, selectors),
		StatusText:    gameTime,
		KickoffText:   kickoff,
		Competition:   text(card.Find(selectors.Competition).First()),
	}, true
}

func broadcastText(card *goquery.Selection, selectors Selectors) string {
	details := card.Find(selectors.Details).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Find(selectors.Paragraph).Text(), broadcastLabel)
	})
	if details.Length() == 0 {
		return notInformed
	}
	value := labelled(details.Find(selectors.Paragraph), broadcastLabel)
	if value == "" {
		return notInformed
	}
	return value
}

// labelled returns the text after label in the first paragraph carrying it.
func labelled(paragraphs *goquery.Selection, label string) string {
	var value string
	paragraphs.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		content := p.Text()
		idx := strings.Index(content, label)
		if idx < 0 {
			return true
		}
		value = strings.Join(strings.Fields(content[idx+len(label):]), " ")
		return false
	})
	return value
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
