package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"shopcatalog/internal/grpcserver"
	"shopcatalog/internal/listing"
	"shopcatalog/internal/product"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/grpc/catalogpb"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := utils.LoadConfig()

	log := logger.Must(cfg.Logger)
	defer log.Sync()

	db := database.MustOpen(database.DefaultConfig(), log)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal("grpc listen failed", zap.Error(err))
	}

	svc := grpcserver.NewServer(product.NewRepo(db), listing.NewRepo(db))

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogger(log.Named("grpc"))))
	catalogpb.RegisterCatalogServiceServer(grpcServer, svc)

	go func() {
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal("grpc server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gRPC server")
	grpcServer.GracefulStop()
}
