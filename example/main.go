package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/meikuraledutech/assistant/gemini"
	"github.com/meikuraledutech/assistant/memory"
	"github.com/meikuraledutech/assistant/service"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment.
	v := viper.New()
	assistant.SetDefaults(v)
	cfg, err := assistant.LoadConfig(v)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// Create store and provider with request logging enabled.
	store := memory.New()
	defer store.Close()
	provider := assistant.WithRequestLog(gemini.New(cfg.GeminiAPIKey, cfg.Model), store)

	a, err := agent.New(provider, agent.WithSettings(agent.SettingsFromConfig(cfg)))
	if err != nil {
		log.Fatal().Err(err).Msg("create agent")
	}
	svc := service.New(store, a)

	status := svc.AgentStatus()
	fmt.Printf("✓ Agent %s on %s (%s)\n", status.Agent, status.Model, status.Status)

	conv, err := svc.CreateConversation(ctx, service.CreateConversationRequest{Title: "New Chat"})
	if err != nil {
		log.Fatal().Err(err).Msg("create conversation")
	}
	fmt.Printf("✓ Conversation created: %d\n\n", conv.ID)

	prompts := []string{
		"How do I structure a Go service with an HTTP API and an in-memory store?",
		"Now show how to add graceful shutdown to it.",
	}
	for i, prompt := range prompts {
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("PROMPT %d\n", i+1)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("📝 Prompt: %s\n", prompt)

		ex, err := svc.HandleUserMessage(ctx, service.SendMessageRequest{
			ConversationID: conv.ID,
			Role:           assistant.RoleUser,
			Content:        prompt,
		})
		if err != nil {
			fmt.Printf("❌ Request failed: %v\n", err)
			return
		}
		fmt.Printf("✓ Response received (%d bytes), tokens used: %v\n", len(ex.AIMessage.Content), ex.AIMessage.Metadata["tokensUsed"])
		fmt.Printf("✓ Conversation title: %s\n\n", ex.Conversation.Title)
	}

	analysis, err := svc.AnalyzeMessage(ctx, service.AnalyzeRequest{Content: prompts[0]})
	if err != nil {
		log.Fatal().Err(err).Msg("analyze")
	}
	fmt.Printf("🔍 Intent: %s, confidence %.2f, complexity %s, entities %v\n\n",
		analysis.Intent, analysis.Confidence, analysis.Complexity, analysis.Entities)

	session, err := svc.GetAgentSession(ctx, conv.ID)
	if err == nil {
		fmt.Printf("📊 Session state: %v\n", session.State)
	}

	logs, err := store.ListRequestLogs(ctx, conv.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("list request logs")
	}
	fmt.Printf("📊 Request logs: %d\n", len(logs))
	for _, l := range logs {
		fmt.Printf("  - %s %s in %s\n", l.Model, l.FinalStatus, l.Duration)
	}
}
