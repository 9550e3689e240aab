package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type sendOptions struct {
	baseURL     string
	marketplace string
	storeID     string
	secret      string
	order       sampleOrder
	repeat      int
	concurrency int
	timeout     time.Duration
}

func newSendCmd(root *rootOptions) *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign and deliver a sample order webhook",
		Long: "Sign and deliver a sample order webhook. With --repeat the same " +
			"delivery is sent several times concurrently, which should be " +
			"counted exactly once by the server.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd.Context(), root.log, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "Server base URL")
	f.StringVar(&opts.marketplace, "marketplace", "shopify", "Marketplace (shopify, woocommerce, bigcommerce, magento)")
	f.StringVar(&opts.storeID, "store-id", "", "Store id the webhook URL targets")
	f.StringVar(&opts.secret, "secret", "", "Store webhook secret")
	f.StringVar(&opts.order.ID, "order-id", "", "Order id (random when empty)")
	f.BoolVar(&opts.order.Unpaid, "unpaid", false, "Report the order as not paid")
	f.BoolVar(&opts.order.Test, "test-order", false, "Mark the order as a test order")
	f.IntVar(&opts.repeat, "repeat", 1, "Number of identical deliveries")
	f.IntVar(&opts.concurrency, "concurrency", 4, "Maximum deliveries in flight")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	_ = cmd.MarkFlagRequired("store-id")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

func runSend(ctx context.Context, log *zap.Logger, opts *sendOptions) error {
	m, ok := tracking.ParseMarketplace(opts.marketplace)
	if !ok {
		return fmt.Errorf("unsupported marketplace %q", opts.marketplace)
	}
	if opts.repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}
	if opts.order.ID == "" {
		opts.order.ID = uuid.NewString()[:8]
	}

	body, err := buildPayload(m, opts.order)
	if err != nil {
		return err
	}

	target, err := url.Parse(strings.TrimRight(opts.baseURL, "/") +
		"/webhooks/" + m.PathSegment() + "/" + url.PathEscape(opts.storeID))
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	header := http.Header{"Content-Type": []string{"application/json"}}
	query := url.Values{}
	sign(m, body, opts.secret, header, query)
	target.RawQuery = query.Encode()

	log.Info("Sending webhook",
		zap.String("marketplace", m.String()),
		zap.String("store_id", opts.storeID),
		zap.String("order_id", opts.order.ID),
		zap.Int("repeat", opts.repeat))

	client := &http.Client{Timeout: opts.timeout}
	var delivered atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))
	for i := range opts.repeat {
		g.Go(func() error {
			status, resp, err := deliver(gctx, client, target.String(), header, body)
			if err != nil {
				return fmt.Errorf("delivery %d: %w", i+1, err)
			}
			delivered.Add(1)
			log.Info("Webhook delivered",
				zap.Int("attempt", i+1),
				zap.Int("status", status),
				zap.ByteString("response", resp))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("All deliveries completed", zap.Int64("delivered", delivered.Load()))
	return nil
}

func deliver(ctx context.Context, client *http.Client, target string, header http.Header, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header = header.Clone()

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, out, nil
}
