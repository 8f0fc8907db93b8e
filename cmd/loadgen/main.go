package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campusmess/foodcourt/internal/adapter/storage"
	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/core/service"
)

const (
	mysqlDSN       = "root:root@tcp(localhost:3306)/foodcourt?parseTime=true"
	redisAddr      = "localhost:6379"
	totalCheckouts = 50
)

// Fires concurrent checkouts against live MySQL/Redis and verifies every
// order got a distinct queue number.
func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	foodID := seedFood(ctx, db)
	cartIDs := make([]string, totalCheckouts)
	for i := range cartIDs {
		cartIDs[i] = seedCart(ctx, db, foodID)
	}

	orderService := service.NewOrderService(
		storage.NewMySQLAdapter(db),
		storage.NewMySQLCartAdapter(db),
		storage.NewRedisCounterAdapter(rdb),
		"MM",
	)

	var (
		mu           sync.Mutex
		queueNumbers []int64
		failures     int
		wg           sync.WaitGroup
	)
	start := time.Now()

	for i := 0; i < totalCheckouts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ident := domain.Identity{
				Identifier: fmt.Sprintf("loadgen-user-%d", n),
				Name:       fmt.Sprintf("Loadgen User %d", n),
				Role:       domain.RoleStudent,
				Profile: domain.Profile{
					MessID:     fmt.Sprintf("LG%04d", n),
					RollNumber: fmt.Sprintf("R%04d", n),
				},
			}
			order, err := orderService.PlaceOrder(ctx, ident, service.PlaceOrderInput{CartID: cartIDs[n]})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				log.Printf("checkout %d failed: %v", n, err)
				return
			}
			queueNumbers = append(queueNumbers, order.QueueNumber)
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	seen := make(map[int64]bool, len(queueNumbers))
	duplicates := 0
	for _, qn := range queueNumbers {
		if seen[qn] {
			duplicates++
		}
		seen[qn] = true
	}

	fmt.Println("========== LOADGEN RESULTS ==========")
	fmt.Printf("Checkouts:        %d\n", totalCheckouts)
	fmt.Printf("Succeeded:        %d\n", len(queueNumbers))
	fmt.Printf("Failed:           %d\n", failures)
	fmt.Printf("Duplicate queue#: %d\n", duplicates)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=====================================")

	if duplicates == 0 && len(queueNumbers) == totalCheckouts {
		fmt.Println("PASS: every checkout received a distinct queue number")
	} else {
		fmt.Println("FAIL: queue number uniqueness violated or checkouts lost")
	}
}

func seedFood(ctx context.Context, db *sql.DB) string {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO food_items (id, name, unit_price) VALUES (?, ?, ?)`,
		id, "Loadgen Burger", 5.0)
	if err != nil {
		log.Fatalf("seed food item: %v", err)
	}
	return id
}

func seedCart(ctx context.Context, db *sql.DB, foodID string) string {
	cartID := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO carts (id) VALUES (?)`, cartID); err != nil {
		log.Fatalf("seed cart: %v", err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO cart_items (id, cart_id, food_id, quantity) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), cartID, foodID, 1)
	if err != nil {
		log.Fatalf("seed cart item: %v", err)
	}
	return cartID
}
