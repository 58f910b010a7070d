package push

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMGateway sends push notifications through Firebase Cloud Messaging.
type FCMGateway struct {
	client *messaging.Client
	link   string
	logger *slog.Logger
}

// NewFCMGateway initializes the Firebase Admin SDK from a service account
// credentials file. link is the web push click-through URL.
func NewFCMGateway(ctx context.Context, credentialsFile, link string, logger *slog.Logger) (*FCMGateway, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &FCMGateway{client: client, link: link, logger: logger}, nil
}

// SendBulk delivers one notification to every token via a single multicast
// call. Tokens FCM reports as unregistered or malformed are returned in the
// report's invalid list; all other per-token errors count as transient
// failures.
func (g *FCMGateway) SendBulk(ctx context.Context, tokens []string, title, body string, data map[string]string) (*Report, error) {
	if len(tokens) == 0 {
		return &Report{}, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Webpush: &messaging.WebpushConfig{
			FCMOptions: &messaging.WebpushFCMOptions{Link: g.link},
		},
	}

	resp, err := g.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}

	report := &Report{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}
	for i, r := range resp.Responses {
		if r.Success || r.Error == nil {
			continue
		}
		if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			report.InvalidTokens = append(report.InvalidTokens, tokens[i])
		} else {
			g.logger.Warn("transient push failure", "error", r.Error)
		}
	}
	return report, nil
}

// LogGateway is the stand-in used when FCM credentials are not configured:
// it logs each send and reports full success so the rest of the pipeline
// (cooldown included) behaves as in production.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway creates a log-only gateway.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) SendBulk(_ context.Context, tokens []string, title, body string, _ map[string]string) (*Report, error) {
	g.logger.Info("push send (FCM disabled)", "tokens", len(tokens), "title", title, "body", body)
	return &Report{SuccessCount: len(tokens)}, nil
}
