package analysis

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"channel-coach/internal/models"
)

// Action point ids are stable across analyses; the tracker keys on them.
const (
	ActionSchedule = "ap_schedule"
	ActionCTA      = "ap_cta"
	ActionSEO      = "ap_seo"
	ActionTitles   = "ap_titles"
)

const (
	consistentGapDays = 10
	irregularGapDays  = 14
	highEngagement    = 4.0
	lowEngagement     = 2.0
	minTagsPerVideo   = 5
	shortTitleChars   = 20
	maxShortTitles    = 2
)

// EngagementRate returns (likes+comments)/views as a percentage, 0 for unseen videos.
func EngagementRate(v *models.Video) float64 {
	if v.ViewCount <= 0 {
		return 0
	}
	return float64(v.LikeCount+v.CommentCount) / float64(v.ViewCount) * 100
}

// AnalyzeChannel scores a channel from its recent uploads.
func AnalyzeChannel(channel *models.Channel, videos []*models.Video) models.AnalysisResult {
	result := models.AnalysisResult{
		Strengths:    []string{},
		Weaknesses:   []string{},
		ActionPoints: []models.ActionPoint{},
	}

	// Upload cadence
	avgGapDays := averageUploadGapDays(videos)
	if avgGapDays > 0 && avgGapDays < consistentGapDays {
		result.Strengths = append(result.Strengths, "Constancia de subida")
	} else if avgGapDays > irregularGapDays {
		result.Weaknesses = append(result.Weaknesses, "Frecuencia de subida baja o irregular")
		result.ActionPoints = append(result.ActionPoints, models.ActionPoint{
			ID:          ActionSchedule,
			Title:       "Establecer calendario de publicación",
			Description: fmt.Sprintf("Actualmente subes video cada ~%d días. Intenta definir un día fijo a la semana.", int(math.Round(avgGapDays))),
			Priority:    models.PriorityHigh,
			Category:    models.CategoryContent,
		})
	}

	// Engagement
	var totalEngagement float64
	for _, v := range videos {
		totalEngagement += EngagementRate(v)
	}
	avgEngagement := totalEngagement / float64(max(len(videos), 1))

	if avgEngagement > highEngagement {
		result.Strengths = append(result.Strengths, "Alto Engagement Rate")
	} else if avgEngagement < lowEngagement {
		result.Weaknesses = append(result.Weaknesses, "Baja interacción (Likes/Comentarios)")
		result.ActionPoints = append(result.ActionPoints, models.ActionPoint{
			ID:          ActionCTA,
			Title:       "Mejorar Call-to-Action (CTA)",
			Description: "Pide explícitamente likes y comentarios con una pregunta específica en tus videos.",
			Priority:    models.PriorityMedium,
			Category:    models.CategoryEngagement,
		})
	}

	// Tags
	var tagged int
	var firstUntagged string
	for _, v := range videos {
		if len(v.Tags) > minTagsPerVideo {
			tagged++
		} else if firstUntagged == "" {
			firstUntagged = v.ID
		}
	}
	if tagged == len(videos) {
		result.Strengths = append(result.Strengths, "Buen uso de etiquetas (SEO)")
	} else {
		result.Weaknesses = append(result.Weaknesses, "Etiquetado SEO deficiente")
		result.ActionPoints = append(result.ActionPoints, models.ActionPoint{
			ID:          ActionSEO,
			Title:       "Optimizar Etiquetas de Video",
			Description: "Asegúrate de usar al menos 5-10 tags relevantes en cada video incluyendo variaciones de palabras clave.",
			Priority:    models.PriorityHigh,
			Category:    models.CategorySEO,
			VideoID:     firstUntagged,
		})
	}

	// Titles
	var shortTitles int
	var firstShortTitle string
	for _, v := range videos {
		if utf8.RuneCountInString(v.Title) < shortTitleChars {
			shortTitles++
			if firstShortTitle == "" {
				firstShortTitle = v.ID
			}
		}
	}
	if shortTitles > maxShortTitles {
		result.Weaknesses = append(result.Weaknesses, "Títulos demasiado cortos")
		result.ActionPoints = append(result.ActionPoints, models.ActionPoint{
			ID:          ActionTitles,
			Title:       "Alargar y detallar títulos",
			Description: "Los títulos cortos pierden oportunidades de búsqueda. Usa entre 40-60 caracteres.",
			Priority:    models.PriorityMedium,
			Category:    models.CategorySEO,
			VideoID:     firstShortTitle,
		})
	}

	score := 50 + len(result.Strengths)*10 - len(result.Weaknesses)*5
	result.Score = min(max(score, 0), 100)

	return result
}

// averageUploadGapDays is the mean distance between consecutive uploads,
// 0 when fewer than two videos are known.
func averageUploadGapDays(videos []*models.Video) float64 {
	if len(videos) < 2 {
		return 0
	}

	dates := make([]int64, 0, len(videos))
	for _, v := range videos {
		dates = append(dates, v.PublishedAt.UnixMilli())
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] > dates[j] })

	var gaps int64
	for i := 0; i < len(dates)-1; i++ {
		gaps += dates[i] - dates[i+1]
	}

	const msPerDay = 1000 * 60 * 60 * 24
	return float64(gaps) / float64(len(dates)-1) / msPerDay
}
