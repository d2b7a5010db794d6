package ai

import (
	"context"
	"fmt"
	"strings"

	"channel-coach/shared/config"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Generator produces one model reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// Assistant answers questions about the dashboard data. Without a Gemini key
// it falls back to a keyword-driven analyst.
type Assistant struct {
	generator Generator
	model     string
}

func NewAssistant(ctx context.Context, cfg config.AIConfig) (*Assistant, error) {
	if cfg.GeminiAPIKey == "" {
		log.Info().Msg("No Gemini API key configured, assistant runs in heuristic mode")
		return &Assistant{model: cfg.Model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewAssistantWithGenerator(&geminiGenerator{client: client}, cfg.Model), nil
}

func NewAssistantWithGenerator(generator Generator, model string) *Assistant {
	return &Assistant{generator: generator, model: model}
}

// SendMessage never fails: model errors become an apologetic reply.
func (a *Assistant) SendMessage(ctx context.Context, history []Message, c Context) string {
	if a.generator == nil {
		return heuristicReply(history, c)
	}

	contents := buildContents(history)
	if len(contents) == 0 {
		return heuristicReply(history, c)
	}

	reply, err := a.generator.Generate(ctx, a.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildSystemInstruction(c), genai.RoleUser),
	})
	if err != nil {
		log.Error().Err(err).Msg("Gemini request failed")
		return fmt.Sprintf("⚠️ Lo siento, no pude consultar al modelo: %v. Verifica tu clave.", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "No pude generar una respuesta."
	}
	return reply
}

func buildContents(history []Message) []*genai.Content {
	var contents []*genai.Content
	for _, m := range history {
		switch m.Role {
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return contents
}

func buildSystemInstruction(c Context) string {
	title := "Creador"
	payload := "{}"
	if c != nil {
		if t := c.channelTitle(); t != "" {
			title = t
		}
		raw, err := json.MarshalIndent(map[string]any{"type": c.kind(), "data": c}, "", "  ")
		if err == nil {
			payload = string(raw)
		}
	}

	return fmt.Sprintf(`Eres "El Analista", un experto en estrategia de YouTube para el canal "%s".
Tu tono es profesional pero cercano, crítico pero constructivo.
Analiza los datos proporcionados (Vistas, Retención, CTR) y da consejos tácticos.
Sé conciso. Usa emojis ocasionalmente.

Datos del Contexto Actual:
%s`, title, payload)
}

func heuristicReply(history []Message, c Context) string {
	var last string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			last = strings.ToLower(history[i].Content)
			break
		}
	}

	switch {
	case strings.Contains(last, "titulo"), strings.Contains(last, "título"):
		return "Los títulos cortos (<60 caracteres) con números suelen funcionar mejor. Intenta agregar urgencia o curiosidad."
	case strings.Contains(last, "miniatura"), strings.Contains(last, "thumbnail"):
		return "Asegúrate de que la miniatura tenga alto contraste y una cara expresiva. Si el CTR es bajo (<4%), cámbiala inmediatamente."
	case strings.Contains(last, "retencion"), strings.Contains(last, "retención"):
		return "La caída en los primeros 30 segundos es crítica. Revisa tu intro: ¿Vas directo al grano o das muchas vueltas?"
	}

	switch ctx := c.(type) {
	case ComparisonContext:
		return fmt.Sprintf("En esta comparación, el video A tiene un %s de diferencia. %s", ctx.Delta, ctx.Verdict)
	case ChannelContext:
		if len(ctx.Weaknesses) > 0 {
			return fmt.Sprintf("Tu canal tiene una puntuación de %d/100. Lo más urgente: %s.", ctx.Score, ctx.Weaknesses[0])
		}
	case VideoContext:
		if ctx.Metrics != nil {
			return fmt.Sprintf("\"%s\" retiene al %.0f%% de la audiencia y suma %.0f vistas por hora. Concéntrate en el gancho inicial.", ctx.Title, ctx.Metrics.RetentionRelative, ctx.Metrics.Velocity)
		}
	}

	return "Soy el Analista Virtual (Modo Simulado). Agrega tu API Key para que pueda analizar tus datos con inteligencia real. Mientras tanto: concéntrate en mejorar tu CTR y Retención."
}
