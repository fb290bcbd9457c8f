package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/client"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/config"
	"github.com/aman-zulfiqar/solana-liquidity-pool/internal/sim"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func main() {
	loadEnv()

	mode := flag.String("mode", "get", "init | add | remove | swap | get | list | sim")
	mintAStr := flag.String("mint-a", "", "first mint address (base58)")
	mintBStr := flag.String("mint-b", "", "second mint address (base58)")
	amountA := flag.Uint64("amount-a", 0, "amount of the first asset (base units)")
	amountB := flag.Uint64("amount-b", 0, "amount of the second asset (base units)")
	shares := flag.Uint64("shares", 0, "share amount to burn (remove mode)")
	amountIn := flag.Uint64("amount-in", 0, "input amount (swap/sim mode)")
	inStr := flag.String("in", "", "input mint for swap (base58, must be mint-a or mint-b)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// The sim mode is purely local and needs no RPC or wallet.
	if *mode == "sim" {
		runSim(*amountA, *amountB, *amountIn)
		return
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid configuration:", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	poolClient, err := client.New(client.Config{
		ProgramID:         cfg.PoolProgramID,
		RPCURL:            cfg.RPCUrl,
		RPCTimeout:        cfg.HTTPTimeout,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
		WalletPrivateKey:  os.Getenv("WALLET_PRIVATE_KEY"),
		ConfirmTimeout:    cfg.ConfirmTimeout,
		SendRetries:       cfg.SendRetries,
		RequireSimulation: cfg.RequireSimulation,
		Logger:            logger,
	})
	if err != nil {
		fmt.Println("failed to init pool client:", err)
		os.Exit(1)
	}
	defer poolClient.Close()

	if *mode == "list" {
		runList(ctx, poolClient)
		return
	}

	mintA, mintB := parseMints(*mintAStr, *mintBStr)

	switch *mode {
	case "init":
		requirePositive("amount-a", *amountA)
		requirePositive("amount-b", *amountB)
		r, err := poolClient.InitializePool(ctx, mintA, mintB, *amountA, *amountB)
		if err != nil {
			fmt.Println("initialize failed:", err)
			os.Exit(1)
		}
		fmt.Printf("pool=%s sig=%s shares=%d duration=%s\n", r.Pool, r.Signature, r.Shares, r.Duration)

	case "add":
		requirePositive("amount-a", *amountA)
		requirePositive("amount-b", *amountB)
		r, err := poolClient.AddLiquidity(ctx, mintA, mintB, *amountA, *amountB)
		if err != nil {
			fmt.Println("add liquidity failed:", err)
			os.Exit(1)
		}
		fmt.Printf("pool=%s sig=%s shares=%d duration=%s\n", r.Pool, r.Signature, r.Shares, r.Duration)

	case "remove":
		requirePositive("shares", *shares)
		r, err := poolClient.RemoveLiquidity(ctx, mintA, mintB, *shares)
		if err != nil {
			fmt.Println("remove liquidity failed:", err)
			os.Exit(1)
		}
		fmt.Printf("pool=%s sig=%s amount_a=%d amount_b=%d duration=%s\n",
			r.Pool, r.Signature, r.AmountA, r.AmountB, r.Duration)

	case "swap":
		requirePositive("amount-in", *amountIn)
		mintIn, err := solana.PublicKeyFromBase58(*inStr)
		if err != nil {
			fmt.Println("invalid -in mint:", err)
			os.Exit(2)
		}
		mintOut := mintB
		if mintIn.Equals(mintB) {
			mintOut = mintA
		} else if !mintIn.Equals(mintA) {
			fmt.Println("-in must be one of -mint-a or -mint-b")
			os.Exit(2)
		}
		r, err := poolClient.Swap(ctx, mintIn, mintOut, *amountIn)
		if err != nil {
			fmt.Println("swap failed:", err)
			os.Exit(1)
		}
		fmt.Printf("pool=%s sig=%s amount_in=%d estimated_out=%d duration=%s\n",
			r.Pool, r.Signature, r.AmountIn, r.EstimatedOut, r.Duration)

	case "get":
		state, err := poolClient.FetchPoolState(ctx, mintA, mintB)
		if err != nil {
			fmt.Println("fetch failed:", err)
			os.Exit(1)
		}
		if state == nil {
			fmt.Println("pool not found")
			os.Exit(1)
		}
		d, _ := poolClient.Derive(mintA, mintB)
		fmt.Printf("pool=%s reserve_a=%d reserve_b=%d total_shares=%d\n",
			d.Pool, state.ReserveA, state.ReserveB, state.TotalShares)

	default:
		fmt.Println("invalid -mode (use init|add|remove|swap|get|list|sim)")
		os.Exit(2)
	}
}

func runList(ctx context.Context, poolClient *client.Client) {
	entries, err := poolClient.FetchAllPools(ctx)
	if err != nil {
		fmt.Println("scan failed:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("pool=%s mint_a=%s mint_b=%s reserve_a=%d reserve_b=%d total_shares=%d\n",
			e.Address, e.State.MintA, e.State.MintB,
			e.State.ReserveA, e.State.ReserveB, e.State.TotalShares)
	}
	fmt.Printf("found %d pools\n", len(entries))
}

// runSim previews an initialize-then-swap sequence on the local mirror.
func runSim(amountA, amountB, amountIn uint64) {
	requirePositive("amount-a", amountA)
	requirePositive("amount-b", amountB)
	requirePositive("amount-in", amountIn)

	p := sim.NewPool()
	shares, err := p.Initialize("local", amountA, amountB)
	if err != nil {
		fmt.Println("sim initialize failed:", err)
		os.Exit(1)
	}

	out, err := p.Swap(true, amountIn)
	if err != nil {
		fmt.Println("sim swap failed:", err)
		os.Exit(1)
	}

	snap := p.State()
	fmt.Printf("initial_shares=%d amount_in=%d amount_out=%d reserve_a=%d reserve_b=%d\n",
		shares, amountIn, out, snap.ReserveA, snap.ReserveB)
}

func parseMints(a, b string) (solana.PublicKey, solana.PublicKey) {
	mintA, err := solana.PublicKeyFromBase58(a)
	if err != nil {
		fmt.Println("invalid -mint-a:", err)
		os.Exit(2)
	}
	mintB, err := solana.PublicKeyFromBase58(b)
	if err != nil {
		fmt.Println("invalid -mint-b:", err)
		os.Exit(2)
	}
	return mintA, mintB
}

func requirePositive(name string, v uint64) {
	if v == 0 {
		fmt.Printf("missing -%s (must be > 0)\n", name)
		os.Exit(2)
	}
}
