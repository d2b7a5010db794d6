package analysis

import (
	"fmt"

	"channel-coach/internal/models"
)

const maxInsights = 5

// GenerateAdvancedInsights scans each content segment for outliers and returns
// at most five insights, shorts first.
func GenerateAdvancedInsights(videos []*models.Video) []models.Insight {
	insights := []models.Insight{}
	segments := Segment(videos)

	if len(segments.Short) > 0 {
		avgShortViews := averageViews(segments.Short)

		for _, short := range segments.Short {
			views := float64(short.ViewCount)
			likeRatio := ratio(short.LikeCount, short.ViewCount)

			if views > avgShortViews*1.5 && likeRatio < 3 {
				insights = append(insights, models.Insight{
					Type:        models.InsightOpportunity,
					ContentType: models.ContentShort,
					Title:       "Alto Alcance, Interacción Baja",
					Description: fmt.Sprintf("El Short %q llegó a mucha gente pero pocos dieron like.", truncate(short.Title, 30)),
					Metric:      fmt.Sprintf("%.1f%% Likes/Views", likeRatio),
					Suggestion:  "Tu gancho visual funciona, pero el contenido no satisface. Intenta pedir que se suscriban o den like visualmente a la mitad del video.",
					Priority:    models.InsightHigh,
				})
			}
		}
	}

	if len(segments.Video) > 0 {
		avgViews := averageViews(segments.Video)

		for _, video := range segments.Video {
			views := float64(video.ViewCount)
			commentRatio := ratio(video.CommentCount, video.ViewCount)

			if commentRatio > 0.5 {
				insights = append(insights, models.Insight{
					Type:        models.InsightStrength,
					ContentType: models.ContentVideo,
					Title:       "Generador de Comunidad",
					Description: fmt.Sprintf("El video %q provocó mucha conversación.", truncate(video.Title, 30)),
					Metric:      fmt.Sprintf("%.2f%% Comentarios/Visitas", commentRatio),
					Suggestion:  "Este tema toca la fibra sensible. Haz una segunda parte o responde a los comentarios con otro video (Video Reply).",
					Priority:    models.InsightMedium,
				})
			}

			if views < avgViews*0.4 {
				insights = append(insights, models.Insight{
					Type:        models.InsightWeakness,
					ContentType: models.ContentVideo,
					Title:       "Video Estancado",
					Description: fmt.Sprintf("%q tiene un %.0f%% menos visitas que tu media.", truncate(video.Title, 30), (1-views/avgViews)*100),
					Suggestion:  "Cambia la miniatura y el título AHORA. Usa palabras clave más buscadas o una imagen con más contraste.",
					Priority:    models.InsightHigh,
				})
			}
		}
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func averageViews(videos []*models.Video) float64 {
	if len(videos) == 0 {
		return 0
	}
	var total int64
	for _, v := range videos {
		total += v.ViewCount
	}
	return float64(total) / float64(len(videos))
}

// ratio is part/whole as a percentage; 0 when whole is not positive.
func ratio(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
