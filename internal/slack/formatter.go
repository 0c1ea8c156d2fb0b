package slack

import (
	"fmt"
	"strings"

	"allocation-board/internal/config"
	"allocation-board/internal/digest"
	"allocation-board/internal/textutil"
)

const (
	maxHeaderText  = 150
	maxSectionText = 3000
)

// SlackMessage represents a Slack message with Block Kit formatting
type SlackMessage struct {
	Text   string  `json:"text"`             // Fallback text
	Blocks []Block `json:"blocks,omitempty"` // Block Kit blocks
}

// Block represents a Slack Block Kit block
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []TextObject `json:"elements,omitempty"` // For context blocks
}

// TextObject represents a text object in Slack Block Kit
type TextObject struct {
	Type string `json:"type"` // plain_text or mrkdwn
	Text string `json:"text"`
}

// formatDigestMessage formats a digest as a Slack Block Kit message
func formatDigestMessage(d digest.Digest, formatConfig *config.FormatConfig) SlackMessage {
	showFlags := formatConfig == nil || formatConfig.ShowUnicodeFlags

	// Get Slack-specific title or use default
	titleText := d.Title
	if formatConfig != nil && formatConfig.DigestTitle != "" {
		titleText = formatConfig.DigestTitle
	}
	if formatConfig != nil && formatConfig.Slack.TitleText != "" {
		titleText = formatConfig.Slack.TitleText
	}
	if titleText == "" {
		titleText = "Country Allocation Progress"
	}

	blocks := []Block{{
		Type: "header",
		Text: &TextObject{
			Type: "plain_text",
			Text: textutil.TruncateText(titleText, maxHeaderText),
		},
	}}

	lines := make([]string, 0, len(d.Rows))
	for i, row := range d.Rows {
		lines = append(lines, fmt.Sprintf("*%d.* %s", i+1, textutil.EscapeSlack(digest.Line(row, showFlags))))
	}
	body := textutil.TruncateLines(lines, maxSectionText)
	if body == "" {
		body = "No data."
	}
	blocks = append(blocks, Block{
		Type: "section",
		Text: &TextObject{Type: "mrkdwn", Text: body},
	})

	fields := []TextObject{{
		Type: "mrkdwn",
		Text: fmt.Sprintf("*Qualified:*\n%d of %d", d.QualifiedCount, d.Total),
	}}
	if d.GoalText != "" {
		fields = append(fields, TextObject{
			Type: "mrkdwn",
			Text: fmt.Sprintf("*Goal:*\n%s", textutil.EscapeSlack(d.GoalText)),
		})
	}
	blocks = append(blocks, Block{Type: "section", Fields: fields})

	if formatConfig != nil && formatConfig.ShowNewlyQualified && len(d.NewlyQualified) > 0 {
		newly := textutil.EscapeSlack(strings.Join(d.NewlyQualified, ", "))
		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: textutil.TruncateText("*Newly qualified:* "+newly, maxSectionText),
			},
		})
	}

	blocks = append(blocks, Block{
		Type: "context",
		Elements: []TextObject{{
			Type: "mrkdwn",
			Text: fmt.Sprintf("Run %s · %s", d.RunID, d.GeneratedAt.Format("2006-01-02 15:04 MST")),
		}},
	})

	return SlackMessage{
		Text:   fmt.Sprintf("%s: %s", titleText, d.Summary()),
		Blocks: blocks,
	}
}
