package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/liqpay-client/internal/adapters/liqpay"
	"github.com/kevin07696/liqpay-client/internal/domain"
	"github.com/kevin07696/liqpay-client/internal/services/payment"
	httpclient "github.com/kevin07696/liqpay-client/pkg/http"
	"github.com/kevin07696/liqpay-client/pkg/security"
	"github.com/kevin07696/liqpay-client/pkg/timeutil"
)

const usage = `Usage: liqpay <command> [flags]

Commands:
  status          query the state of a payment
  refund          refund a completed payment
  checkout-link   build a hosted checkout URL (offline, no network)
  reports         export the transaction registry for a period
  callback-verify verify a recorded (data, signature) pair

Credentials are read from LIQPAY_PUBLIC_KEY and LIQPAY_PRIVATE_KEY.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "status":
		err = runStatus(os.Args[2:])
	case "refund":
		err = runRefund(os.Args[2:])
	case "checkout-link":
		err = runCheckoutLink(os.Args[2:])
	case "reports":
		err = runReports(os.Args[2:])
	case "callback-verify":
		err = runCallbackVerify(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newService() (*payment.Service, error) {
	creds, err := liqpay.NewCredentials(
		os.Getenv("LIQPAY_PUBLIC_KEY"),
		os.Getenv("LIQPAY_PRIVATE_KEY"),
	)
	if err != nil {
		return nil, err
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	logger := security.NewZapLogger(zapLogger)

	httpClient := httpclient.NewHTTPClient(httpclient.GatewayClientConfig(), 30*time.Second)
	baseURL := os.Getenv("LIQPAY_BASE_URL")
	if baseURL == "" {
		baseURL = liqpay.DefaultBaseURL
	}
	client := liqpay.NewClientWithBaseURL(creds, httpClient, logger, baseURL)

	return payment.NewService(client, nil, logger), nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	orderID := fs.String("order", "", "merchant order identifier (required)")
	fs.Parse(args)

	if *orderID == "" {
		return fmt.Errorf("-order is required")
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	result, err := svc.Status(context.Background(), *orderID)
	if err != nil {
		return err
	}
	return printJSON(result.Params())
}

func runRefund(args []string) error {
	fs := flag.NewFlagSet("refund", flag.ExitOnError)
	orderID := fs.String("order", "", "merchant order identifier (required)")
	amount := fs.String("amount", "", "amount to refund; empty refunds in full")
	fs.Parse(args)

	if *orderID == "" {
		return fmt.Errorf("-order is required")
	}

	refundAmount := decimal.Zero
	if *amount != "" {
		var err error
		refundAmount, err = decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", *amount, err)
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	result, err := svc.Refund(context.Background(), *orderID, refundAmount)
	if err != nil {
		return err
	}
	return printJSON(result.Params())
}

func runCheckoutLink(args []string) error {
	fs := flag.NewFlagSet("checkout-link", flag.ExitOnError)
	orderID := fs.String("order", "", "merchant order identifier (required)")
	amount := fs.String("amount", "", "charge amount (required)")
	currency := fs.String("currency", "UAH", "charge currency")
	description := fs.String("description", "", "order description (required)")
	language := fs.String("language", "", "checkout page language")
	resultURL := fs.String("result-url", "", "URL the customer returns to")
	fs.Parse(args)

	if *orderID == "" || *amount == "" || *description == "" {
		return fmt.Errorf("-order, -amount and -description are required")
	}

	chargeAmount, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	extra := map[string]interface{}{}
	if *language != "" {
		extra["language"] = *language
	}
	if *resultURL != "" {
		extra["result_url"] = *resultURL
	}

	link, err := svc.CheckoutLink(payment.ChargeRequest{
		OrderID:     *orderID,
		Amount:      chargeAmount,
		Currency:    *currency,
		Description: *description,
		Extra:       extra,
	})
	if err != nil {
		return err
	}

	fmt.Println(link)
	return nil
}

func runReports(args []string) error {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	from := fs.String("from", "", "period start, YYYY-MM-DD (required)")
	to := fs.String("to", "", "period end, YYYY-MM-DD; defaults to today")
	format := fs.String("format", "json", "export format: json, csv or xml")
	fs.Parse(args)

	if *from == "" {
		return fmt.Errorf("-from is required")
	}

	dateFrom, err := timeutil.ParseDate("2006-01-02", *from)
	if err != nil {
		return fmt.Errorf("invalid -from date: %w", err)
	}

	dateTo := timeutil.Now()
	if *to != "" {
		dateTo, err = timeutil.ParseDate("2006-01-02", *to)
		if err != nil {
			return fmt.Errorf("invalid -to date: %w", err)
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	body, err := svc.Reports(context.Background(), payment.ReportsRequest{
		DateFrom: timeutil.StartOfDay(dateFrom),
		DateTo:   timeutil.EndOfDay(dateTo),
		Format:   *format,
	})
	if err != nil {
		return err
	}

	os.Stdout.Write(body)
	return nil
}

func runCallbackVerify(args []string) error {
	fs := flag.NewFlagSet("callback-verify", flag.ExitOnError)
	data := fs.String("data", "", "base64 payload from the callback (required)")
	signature := fs.String("signature", "", "signature from the callback (required)")
	fs.Parse(args)

	if *data == "" || *signature == "" {
		return fmt.Errorf("-data and -signature are required")
	}

	creds, err := liqpay.NewCredentials(
		os.Getenv("LIQPAY_PUBLIC_KEY"),
		os.Getenv("LIQPAY_PRIVATE_KEY"),
	)
	if err != nil {
		return err
	}

	result, err := liqpay.NewVerifier(creds).Verify(*data, *signature)
	if err != nil {
		if domain.IsSecurityError(err) {
			fmt.Fprintln(os.Stderr, "REJECTED:", err)
			os.Exit(1)
		}
		return err
	}

	fmt.Println("VERIFIED")
	return printJSON(result.Params())
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
