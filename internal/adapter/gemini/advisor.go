// Package gemini asks a Gemini model for operator advice.
package gemini

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/config"

	"google.golang.org/genai"
)

const systemInstruction = "Você é o Diretor de Estratégia (CFO) do %s. Responda em Português, seja incisivo, sofisticado, profissional e focado em alta performance de vendas."

const promptTemplate = "Analise os dados financeiros e pedidos recentes da nossa hamburgueria: %s. " +
	"Seu objetivo é maximizar o lucro e a eficiência operacional. " +
	"Forneça 3 recomendações críticas baseadas nesses dados (ex: ajustar preços, remover itens de baixa margem, ou criar combos de alta margem)."

type Advisor struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

func NewAdvisor(ctx context.Context, cfg config.GeminiConfig, logger logger.Logger) (*Advisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Advisor{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// SystemInstruction frames the model as the named store's strategist.
func SystemInstruction(storeName string) string {
	return fmt.Sprintf(systemInstruction, storeName)
}

// Prompt is the user turn sent along with the serialized history.
func Prompt(history string) string {
	return fmt.Sprintf(promptTemplate, history)
}

func (a *Advisor) Advise(ctx context.Context, storeName, history string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(Prompt(history)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(storeName), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
		TopP:              genai.Ptr[float32](0.8),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate advice: %w", err)
	}

	a.logger.Debug("advice_generated", "Advisor answered", "", map[string]interface{}{"model": a.model})
	return resp.Text(), nil
}
