package analysis

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"channel-coach/internal/models"
)

// Dimension weights; a tie splits the weight evenly between both sides.
const (
	weightRetention  = 40
	weightThumbnail  = 30
	weightEngagement = 20
	weightTitle      = 10
)

// GenerateExpertReport compares two videos across title, thumbnail (CTR),
// engagement and retention. Analytics may be nil when the viewer has no
// access to the private reports.
func GenerateExpertReport(videoA, videoB *models.Video, statsA, statsB *models.VideoAnalytics) models.ExpertReport {
	report := models.ExpertReport{
		Dimensions: models.ReportDimensions{
			Title:      analyzeTitles(videoA.Title, videoB.Title),
			Thumbnail:  analyzeThumbnails(videoA, videoB, statsA, statsB),
			Engagement: analyzeEngagement(videoA, videoB),
			Retention:  analyzeRetention(statsA, statsB),
		},
		Recommendations: []string{},
	}

	d := report.Dimensions
	for _, w := range []struct {
		dim    models.AnalysisDimension
		weight int
	}{
		{d.Retention, weightRetention},
		{d.Thumbnail, weightThumbnail},
		{d.Engagement, weightEngagement},
		{d.Title, weightTitle},
	} {
		switch w.dim.Winner {
		case models.SideA:
			report.ScoreA += w.weight
		case models.SideB:
			report.ScoreB += w.weight
		default:
			report.ScoreA += w.weight / 2
			report.ScoreB += w.weight / 2
		}
	}

	overall := models.SideTie
	switch {
	case report.ScoreA > report.ScoreB:
		overall = models.SideA
		report.WinnerID = videoA.ID
		report.Verdict = fmt.Sprintf("El Video A gana la batalla (%d pts vs %d pts). %s %s",
			report.ScoreA, report.ScoreB, d.Retention.Reason, d.Thumbnail.Reason)
	case report.ScoreB > report.ScoreA:
		overall = models.SideB
		report.WinnerID = videoB.ID
		report.Verdict = fmt.Sprintf("El Video B se lleva la victoria (%d pts vs %d pts). %s %s",
			report.ScoreB, report.ScoreA, d.Retention.Reason, d.Thumbnail.Reason)
	default:
		report.WinnerID = models.TieID
		report.Verdict = "Es un empate técnico. Ambos videos tienen fortalezas muy similares."
	}

	if IsSyntheticAverage(videoA) || IsSyntheticAverage(videoB) {
		return report
	}

	if overall != models.SideTie && d.Title.Winner == opposite(overall) {
		report.Recommendations = append(report.Recommendations, fmt.Sprintf(
			"Aunque %s ganó, el título de %s está mejor optimizado (más corto/directo). Considera aplicar ese estilo al ganador.",
			overall, d.Title.Winner))
	}
	if sharedTags(videoA.Tags, videoB.Tags) < 2 {
		report.Recommendations = append(report.Recommendations,
			"Ambos videos usan tags muy diferentes. Considera estandarizar tus tags principales para ayudar al algoritmo a categorizar tu canal.")
	}
	if overall != models.SideTie && d.Engagement.Winner == opposite(overall) {
		report.Recommendations = append(report.Recommendations,
			"El ganador tiene menos engagement relativo. Intenta mejorar los 'Call-to-Action' (pedir likes/comentarios) en futuros videos de este tipo.")
	}

	return report
}

func opposite(s models.Side) models.Side {
	switch s {
	case models.SideA:
		return models.SideB
	case models.SideB:
		return models.SideA
	}
	return models.SideTie
}

func titleScore(title string) int {
	var score int
	if utf8.RuneCountInString(title) < 60 {
		score += 5
	}
	if strings.ContainsAny(title, "?!") {
		score += 3
	}
	if strings.IndexFunc(title, unicode.IsDigit) >= 0 {
		score += 2
	}
	return score
}

func analyzeTitles(titleA, titleB string) models.AnalysisDimension {
	// Average pseudo-videos have no real title to judge.
	if strings.Contains(titleA, AverageMarker) || strings.Contains(titleB, AverageMarker) {
		return models.AnalysisDimension{Winner: models.SideTie, Score: 0, Reason: "Comparativa vs Promedio (Título Neutral)."}
	}

	scoreA, scoreB := titleScore(titleA), titleScore(titleB)
	switch {
	case scoreA > scoreB:
		return models.AnalysisDimension{Winner: models.SideA, Score: scoreA, Reason: "Su título es más corto y atractivo (tiene ganchos como preguntas o números)."}
	case scoreB > scoreA:
		return models.AnalysisDimension{Winner: models.SideB, Score: scoreB, Reason: "Su título está mejor optimizado para click (longitud ideal + ganchos)."}
	}
	return models.AnalysisDimension{Winner: models.SideTie, Score: scoreA, Reason: "Ambos títulos tienen una estructura similar."}
}

func interactionRate(v *models.Video) float64 {
	views := max(v.ViewCount, 1)
	return float64(v.LikeCount+v.CommentCount) / float64(views)
}

func analyzeEngagement(videoA, videoB *models.Video) models.AnalysisDimension {
	rateA, rateB := interactionRate(videoA), interactionRate(videoB)

	if rateA > rateB*1.1 {
		return models.AnalysisDimension{Winner: models.SideA, Score: 10, Reason: "Generó mucha más conversación y likes por vista."}
	}
	if rateB > rateA*1.1 {
		return models.AnalysisDimension{Winner: models.SideB, Score: 10, Reason: "Conectó mejor con la audiencia (más likes/comentarios)."}
	}
	return models.AnalysisDimension{Winner: models.SideTie, Score: 5, Reason: "El nivel de interacción es similar."}
}

// viewVelocity is views per day since publish, with days floored at 1.
func viewVelocity(v *models.Video) float64 {
	days := now().Sub(v.PublishedAt).Hours() / 24
	return float64(v.ViewCount) / math.Max(days, 1)
}

func analyzeThumbnails(videoA, videoB *models.Video, statsA, statsB *models.VideoAnalytics) models.AnalysisDimension {
	if statsA != nil && statsB != nil && statsA.ClickThroughRate > 0 && statsB.ClickThroughRate > 0 {
		ctrA, ctrB := statsA.ClickThroughRate, statsB.ClickThroughRate
		if ctrA > ctrB {
			return models.AnalysisDimension{Winner: models.SideA, Score: 10, Reason: fmt.Sprintf("Su CTR es mejor (%.1f%%), indicando una miniatura más potente.", ctrA)}
		}
		if ctrB > ctrA {
			return models.AnalysisDimension{Winner: models.SideB, Score: 10, Reason: fmt.Sprintf("Su CTR es superior (%.1f%%), la miniatura funcionó mejor.", ctrB)}
		}
	}

	velA, velB := viewVelocity(videoA), viewVelocity(videoB)
	if velA > velB*1.2 {
		return models.AnalysisDimension{Winner: models.SideA, Score: 8, Reason: "Atrajo visitas más rápido, sugiriendo mayor interés visual inicial."}
	}
	if velB > velA*1.2 {
		return models.AnalysisDimension{Winner: models.SideB, Score: 8, Reason: "Tuvo mayor velocidad de visitas, señal de una miniatura efectiva."}
	}
	return models.AnalysisDimension{Winner: models.SideTie, Score: 5, Reason: "Rendimiento de clicks estimado similar."}
}

func analyzeRetention(statsA, statsB *models.VideoAnalytics) models.AnalysisDimension {
	if statsA == nil || statsB == nil {
		return models.AnalysisDimension{Winner: models.SideTie, Score: 0, Reason: "Faltan datos privados para analizar retención."}
	}

	avdA, avdB := statsA.AverageViewDuration, statsB.AverageViewDuration
	if avdA > avdB*1.1 {
		return models.AnalysisDimension{Winner: models.SideA, Score: 10, Reason: "Mantuvo a la audiencia viendo por más tiempo."}
	}
	if avdB > avdA*1.1 {
		return models.AnalysisDimension{Winner: models.SideB, Score: 10, Reason: "Fue mucho más efectivo en retener al espectador."}
	}
	return models.AnalysisDimension{Winner: models.SideTie, Score: 5, Reason: "Ambos retuvieron a la audiencia por un tiempo similar."}
}

// sharedTags counts case-insensitive tags present on both videos.
func sharedTags(tagsA, tagsB []string) int {
	if tagsA == nil || tagsB == nil {
		return 0
	}
	setA := make(map[string]struct{}, len(tagsA))
	for _, t := range tagsA {
		setA[strings.ToLower(t)] = struct{}{}
	}
	seen := make(map[string]struct{}, len(tagsB))
	var shared int
	for _, t := range tagsB {
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := setA[key]; ok {
			shared++
		}
	}
	return shared
}
