package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"allocation-board/internal/config"
	"allocation-board/internal/digest"
	"allocation-board/internal/textutil"
)

const (
	// Color constants for Discord embeds
	ColorDigest    = 0x20c997 // Teal, matching the board's progress bars
	ColorQualified = 0x34c759 // Green when every listed country qualified

	maxDescription = 4096
	maxFieldValue  = 1024
)

// formatDigestEmbed creates a Discord embed for a digest
func formatDigestEmbed(d digest.Digest, formatConfig *config.FormatConfig) *discordgo.MessageEmbed {
	showFlags := formatConfig == nil || formatConfig.ShowUnicodeFlags

	title := d.Title
	if formatConfig != nil && formatConfig.DigestTitle != "" {
		title = formatConfig.DigestTitle
	}
	if title == "" {
		title = "Country Allocation Progress"
	}

	lines := make([]string, 0, len(d.Rows))
	for i, row := range d.Rows {
		lines = append(lines, fmt.Sprintf("**%d.** %s", i+1, digest.Line(row, showFlags)))
	}

	description := textutil.TruncateLines(lines, maxDescription)
	if description == "" {
		description = "No data."
	}

	color := ColorDigest
	if d.Total > 0 && d.QualifiedCount == d.Total {
		color = ColorQualified
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 " + title,
		Description: description,
		Color:       color,
		Timestamp:   d.GeneratedAt.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Run " + d.RunID,
		},
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "✅ Qualified",
		Value:  fmt.Sprintf("%d of %d", d.QualifiedCount, d.Total),
		Inline: true,
	})

	if d.GoalText != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🎯 Goal",
			Value:  d.GoalText,
			Inline: true,
		})
	}

	if formatConfig != nil && formatConfig.ShowNewlyQualified && len(d.NewlyQualified) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🆕 Newly qualified",
			Value:  textutil.TruncateText(strings.Join(d.NewlyQualified, ", "), maxFieldValue),
			Inline: false,
		})
	}

	return embed
}
