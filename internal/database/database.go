package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"petshop_back_end/internal/config"
)

// =============================================
// MONGODB
// =============================================

// ConnectMongo opens the client with the decimal codec registered and pings the primary.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetRegistry(NewBSONRegistry()).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Printf("✅ Connected to MongoDB (database %q)", cfg.MongoDatabase)
	return client, client.Database(cfg.MongoDatabase), nil
}

// =============================================
// REDIS
// =============================================

// ConnectRedis returns nil when REDIS_HOST is empty or the server does not answer.
// Everything built on Redis degrades to a no-op in that case.
func ConnectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		log.Println("⚠️ REDIS_HOST not set, cache, rate limits and cart sync are disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis connection error: %v", err)
		_ = client.Close()
		return nil
	}
	log.Println("✅ Connected to Redis")
	return client
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg *config.Config) *elasticsearch.Client {
	if cfg.ElasticURL == "" {
		log.Println("⚠️ ELASTIC_URL not set, product search uses the catalog scan")
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Printf("❌ Elasticsearch client error: %v", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Printf("❌ Elasticsearch connection error: %v", err)
		return nil
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("❌ Elasticsearch info failed: %s", res.Status())
		return nil
	}

	log.Println("✅ Connected to Elasticsearch")
	return client
}

// =============================================
// MINIO
// =============================================

// ConnectMinIO creates the bucket on first use.
func ConnectMinIO(ctx context.Context, cfg *config.Config) *minio.Client {
	if cfg.MinioEndpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT not set, image upload is disabled")
		return nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Printf("❌ MinIO client error: %v", err)
		return nil
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		log.Printf("❌ MinIO bucket check failed: %v", err)
		return nil
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("❌ MinIO bucket creation failed: %v", err)
			return nil
		}
		log.Println("🪣 Bucket created:", cfg.MinioBucket)
	} else {
		log.Println("🪣 MinIO bucket already present:", cfg.MinioBucket)
	}

	log.Println("✅ Connected to MinIO:", cfg.MinioEndpoint)
	return client
}
