package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"shopcatalog/internal/catalog"
	"shopcatalog/pkg/grpc/catalogpb"
	"shopcatalog/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type listingsResponse struct {
	Product models.ProductWithCategoryAndSubcategory `json:"product"`
	Total   int                                      `json:"total"`
	Items   []models.StorePriceListing               `json:"items"`
}

func main() {
	global := flag.NewFlagSet("catalog", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	grpcAddr := global.String("grpc", "localhost:9090", "gRPC server address")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	rest := []string{}
	if len(args) > 1 {
		sub = args[1]
		rest = args[2:]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "products":
		handleProducts(ctx, client, *baseURL, sub, rest)
	case "prices":
		handlePrices(ctx, client, *baseURL, sub, rest)
	case "store":
		handleStore(ctx, client, *baseURL, sub, rest)
	case "listing":
		handleListing(ctx, client, *baseURL, sub, rest)
	case "category":
		handleCategory(ctx, client, *baseURL, sub, rest)
	case "watch":
		handleWatch(*baseURL)
	case "rpc":
		handleRPC(ctx, *grpcAddr, sub, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleProducts(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		// read the published view; POST /catalog/reload would reset it for every watcher
		var snap catalog.Snapshot
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/catalog", nil, &snap); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printProducts(snap)
	case "search":
		fs := flag.NewFlagSet("products search", flag.ExitOnError)
		query := fs.String("q", "", "substring of the product name")
		_ = fs.Parse(args)

		var snap catalog.Snapshot
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/catalog/search", map[string]string{"query": *query}, &snap); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printProducts(snap)
	default:
		log.Fatal("usage: catalog products <list|search>")
	}
}

func handlePrices(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "show":
		fs := flag.NewFlagSet("prices show", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("product id is required")
		}

		var resp listingsResponse
		endpoint := baseURL + "/products/" + strconv.FormatInt(*id, 10) + "/listings"
		if err := doJSON(ctx, client, http.MethodGet, endpoint, nil, &resp); err != nil {
			log.Fatalf("prices failed: %v", err)
		}
		fmt.Printf("%s (%d listings)\n", resp.Product.Name, resp.Total)
		for _, l := range resp.Items {
			fmt.Printf("  %12.2f  %-16s %s\n", l.Price, l.StoreName, l.WebsiteURL)
		}
	default:
		log.Fatal("usage: catalog prices show -id N")
	}
}

func handleStore(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/stores", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "add":
		fs := flag.NewFlagSet("store add", flag.ExitOnError)
		name := fs.String("name", "", "store name")
		site := fs.String("url", "", "store website")
		_ = fs.Parse(args)
		if *name == "" {
			log.Fatal("store name is required")
		}

		var resp models.Store
		payload := map[string]string{"name": *name, "website_url": *site}
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/stores", payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: catalog store <list|add>")
	}
}

func handleListing(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "add":
		fs := flag.NewFlagSet("listing add", flag.ExitOnError)
		productID := fs.Int64("product", 0, "product id")
		storeID := fs.Int64("store", 0, "store id")
		price := fs.Float64("price", -1, "advertised price")
		_ = fs.Parse(args)
		if *productID <= 0 || *storeID <= 0 || *price < 0 {
			log.Fatal("product, store and a non-negative price are required")
		}

		var resp models.ProductListing
		endpoint := baseURL + "/products/" + strconv.FormatInt(*productID, 10) + "/listings"
		payload := map[string]any{"store_id": *storeID, "price": *price}
		if err := doJSON(ctx, client, http.MethodPost, endpoint, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: catalog listing add -product N -store N -price X")
	}
}

func handleCategory(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/categories", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "delete":
		fs := flag.NewFlagSet("category delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "category id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("category id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/categories/"+strconv.FormatInt(*id, 10), nil, &resp); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: catalog category <list|delete>")
	}
}

func handleWatch(baseURL string) {
	wsURL, err := websocketURL(baseURL, "/ws")
	if err != nil {
		log.Fatalf("invalid base url: %v", err)
	}
	for {
		if err := runWebSocket(wsURL); err != nil {
			log.Printf("[watch] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second)
	}
}

func handleRPC(ctx context.Context, addr, sub string, args []string) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("grpc dial: %v", err)
	}
	defer conn.Close()
	client := catalogpb.NewCatalogServiceClient(conn)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch sub {
	case "products":
		fs := flag.NewFlagSet("rpc products", flag.ExitOnError)
		query := fs.String("q", "", "substring of the product name")
		_ = fs.Parse(args)

		req, err := structpb.NewStruct(map[string]any{"query": *query})
		if err != nil {
			log.Fatalf("build request: %v", err)
		}
		resp, err := client.ListProducts(ctx, req)
		if err != nil {
			log.Fatalf("rpc failed: %v", err)
		}
		printProto(resp)
	case "prices":
		fs := flag.NewFlagSet("rpc prices", flag.ExitOnError)
		id := fs.Int64("id", 0, "product id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("product id is required")
		}

		resp, err := client.GetSortedListings(ctx, wrapperspb.Int64(*id))
		if err != nil {
			log.Fatalf("rpc failed: %v", err)
		}
		printProto(resp)
	default:
		log.Fatal("usage: catalog rpc <products|prices>")
	}
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var snap catalog.Snapshot
		if err := json.Unmarshal(msg, &snap); err != nil {
			fmt.Println(string(msg))
			continue
		}
		printProducts(snap)
	}
}

func printProducts(snap catalog.Snapshot) {
	if snap.Query != "" {
		fmt.Printf("query %q: %d products\n", snap.Query, len(snap.Products))
	} else {
		fmt.Printf("%d products\n", len(snap.Products))
	}
	for _, p := range snap.Products {
		fmt.Printf("  %-4d %-34s %10.2f  %s / %s\n", p.ID, p.Name, p.Price, p.CategoryName, p.SubcategoryName)
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func printProto(m *structpb.Struct) {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("catalog [-api URL] [-grpc ADDR] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  products list|search")
	fmt.Println("  prices show")
	fmt.Println("  store list|add")
	fmt.Println("  listing add")
	fmt.Println("  category list|delete")
	fmt.Println("  watch")
	fmt.Println("  rpc products|prices")
}
