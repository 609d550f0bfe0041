package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBedrockMaxTokens   = 8192
	defaultBedrockTemperature = 0.2
	defaultBedrockTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockOptions tunes Converse inference.
type BedrockOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// BedrockClient calls a Bedrock-hosted model through the Converse API.
type BedrockClient struct {
	brc  bedrockRuntimeClient
	opts BedrockOptions
}

var _ LLMClient = (*BedrockClient)(nil)

func NewBedrockClient(brc bedrockRuntimeClient, opts BedrockOptions) *BedrockClient {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultBedrockMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultBedrockTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultBedrockTopP
	}
	return &BedrockClient{brc: brc, opts: opts}
}

// NewBedrockClientFromConfig wires a bedrockruntime client from the shared AWS config.
func NewBedrockClientFromConfig(awsCfg aws.Config, cfg config.LLMConfig) *BedrockClient {
	return NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), BedrockOptions{
		ModelID:     cfg.BedrockModelID,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
}

func (c *BedrockClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "BedrockClient.Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("llm.model", c.opts.ModelID)))
	defer span.End()

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.opts.ModelID),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: systemPrompt}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		log.Printf("[LLMClient] Bedrock converse failed: %v", err)
		return "", fmt.Errorf("%w: bedrock converse: %v", nutrition.ErrUpstreamUnavailable, err)
	}

	if out.Usage != nil {
		span.SetAttributes(
			attribute.Int("llm.input_tokens", int(aws.ToInt32(out.Usage.InputTokens))),
			attribute.Int("llm.output_tokens", int(aws.ToInt32(out.Usage.OutputTokens))),
		)
		log.Printf("[LLMClient] Bedrock converse succeeded (stop=%s, in=%d, out=%d tokens)",
			out.StopReason, aws.ToInt32(out.Usage.InputTokens), aws.ToInt32(out.Usage.OutputTokens))
	}

	text := textFromOutput(out)
	if text == "" {
		return "", fmt.Errorf("%w: empty bedrock response", nutrition.ErrUpstreamUnavailable)
	}
	return text, nil
}

func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}

	var texts []string
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}
