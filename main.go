package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/supportline/supportline/agent/contract"
	dispatcherx "github.com/supportline/supportline/agent/dispatcher"
	orderlookupx "github.com/supportline/supportline/agent/handlers/orderlookup"
	refundx "github.com/supportline/supportline/agent/handlers/refund"
	techsupportx "github.com/supportline/supportline/agent/handlers/techsupport"
	knowledgex "github.com/supportline/supportline/agent/knowledge"
	providerx "github.com/supportline/supportline/agent/provider"
	reasoningx "github.com/supportline/supportline/agent/reasoning"
	configx "github.com/supportline/supportline/pkg/config"
	_ "github.com/supportline/supportline/pkg/logger/autoload"
	openrouterx "github.com/supportline/supportline/pkg/openrouter"
)

type AppConfig struct {
	OrderProvider  string `envconfig:"ORDER_PROVIDER" default:"memory"`
	VerboseReplies bool   `envconfig:"VERBOSE_REPLIES" default:"false"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	kb, err := knowledgex.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load knowledge base")
	}

	orders, cleanup, err := buildOrderProvider(appCfg.OrderProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("build order provider")
	}
	defer cleanup()

	lookup, err := orderlookupx.New(orders)
	if err != nil {
		log.Fatal().Err(err).Msg("build order lookup handler")
	}
	refunds, err := refundx.New(orders)
	if err != nil {
		log.Fatal().Err(err).Msg("build refund handler")
	}

	techOpts := []techsupportx.Option{}
	classifiers := []contractx.IntentClassifier{}

	// An OpenRouter key upgrades classification and troubleshooting
	// phrasing; without one the agent runs fully offline on rules.
	if os.Getenv("OPENROUTER_API_KEY") != "" {
		openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
		chatModel, err := openRouterCfg.New(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("build openrouter chat model")
		}

		llmClassifier, err := reasoningx.NewLLMClassifier(ctx, chatModel)
		if err != nil {
			log.Fatal().Err(err).Msg("build llm classifier")
		}
		classifiers = append(classifiers, llmClassifier)

		engine, err := reasoningx.NewModelEngine(chatModel)
		if err != nil {
			log.Fatal().Err(err).Msg("build reasoning engine")
		}
		techOpts = append(techOpts, techsupportx.WithEngine(engine))
	}
	classifiers = append(classifiers, reasoningx.NewRuleClassifier(kb))

	agentOpts := []dispatcherx.Option{}
	if appCfg.VerboseReplies {
		agentOpts = append(agentOpts, dispatcherx.WithVerboseReplies())
	}

	agent, err := dispatcherx.New(
		kb,
		classifiers,
		map[contractx.Intent]contractx.Handler{
			contractx.IntentOrderLookup: lookup,
			contractx.IntentRefund:      refunds,
			contractx.IntentTechSupport: techsupportx.New(techOpts...),
		},
		agentOpts...,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build dispatcher")
	}

	runConversation(ctx, agent)
}

func buildOrderProvider(kind string) (providerx.OrderProvider, func(), error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return providerx.NewMemoryProvider(), func() {}, nil
	case "postgres":
		cfg := configx.MustNew[providerx.PostgresConfig]("ORDERS_PG")
		pg, err := providerx.NewPostgresProvider(*cfg)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown order provider %q", kind)
	}
}

func runConversation(ctx context.Context, agent *dispatcherx.Agent) {
	fmt.Println("Support agent ready. Type a message, or 'quit' to exit.")

	var prior *contractx.TurnContext
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		out, err := agent.ProcessTurnDetailed(ctx, line, prior)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		prior = &out.Context
		fmt.Println(out.Reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
	fmt.Println("Goodbye!")
}
