package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"taskmanager/pkg/config"
	"taskmanager/pkg/utils"
)

// setup-bucket prepares the attachments bucket: creates it when missing, optionally
// opens tasks/* for anonymous reads, then checks the access key can list, write and delete.
func main() {
	publicRead := flag.Bool("public-read", false, "allow anonymous GET on tasks/*")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	s3 := cfg.Storage.S3

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("  Attachment bucket setup")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("\nEndpoint: %s\n", s3.Endpoint)
	fmt.Printf("Bucket: %s\n", s3.Bucket)
	fmt.Printf("Region: %s\n", s3.Region)

	client, err := minio.New(s3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3.AccessKey, s3.SecretKey, ""),
		Secure: s3.UseSSL,
		Region: s3.Region,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	exists, err := client.BucketExists(ctx, s3.Bucket)
	if err != nil {
		log.Fatalf("Failed to check bucket: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s3.Bucket, minio.MakeBucketOptions{Region: s3.Region}); err != nil {
			log.Fatalf("Failed to create bucket: %v", err)
		}
		fmt.Printf("\n✓ Bucket '%s' created\n", s3.Bucket)
	} else {
		fmt.Printf("\n✓ Bucket '%s' exists\n", s3.Bucket)
	}

	if *publicRead {
		setPublicReadPolicy(ctx, client, s3.Bucket)
	}

	failed := checkPermissions(ctx, client, s3.Bucket)

	fmt.Println("\n═══════════════════════════════════════════════════════════════")
	if failed > 0 {
		fmt.Printf("  %d check(s) failed. The access key needs s3:ListBucket,\n", failed)
		fmt.Println("  s3:PutObject, s3:GetObject and s3:DeleteObject on this bucket.")
		fmt.Println("═══════════════════════════════════════════════════════════════")
		os.Exit(1)
	}
	fmt.Println("  ✓ Bucket ready for task attachments")
	fmt.Println("═══════════════════════════════════════════════════════════════")
}

func setPublicReadPolicy(ctx context.Context, client *minio.Client, bucket string) {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Sid":       "PublicReadAttachments",
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/tasks/*", bucket)},
			},
		},
	}

	policyJSON, _ := json.MarshalIndent(policy, "", "  ")

	fmt.Println("\n--- Setting Bucket Policy ---")
	fmt.Println(string(policyJSON))

	if err := client.SetBucketPolicy(ctx, bucket, string(policyJSON)); err != nil {
		log.Printf("⚠️  Warning: Failed to set policy: %v", err)
		return
	}
	fmt.Println("\n✓ Bucket policy set successfully")
}

// checkPermissions returns how many checks failed.
func checkPermissions(ctx context.Context, client *minio.Client, bucket string) int {
	fmt.Println("\n--- Testing Basic Operations ---")
	failed := 0

	fmt.Print("Testing ListObjects... ")
	listOK := true
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: "tasks/", MaxKeys: 1}) {
		if obj.Err != nil {
			fmt.Printf("❌ Failed: %v\n", obj.Err)
			listOK = false
			failed++
			break
		}
	}
	if listOK {
		fmt.Println("✓ OK")
	}

	key, err := utils.ValidateStorageKey("tasks/_setup/permission-check.txt")
	if err != nil {
		log.Fatalf("Invalid probe key: %v", err)
	}
	content := []byte("permission check")

	fmt.Print("Testing PutObject... ")
	if _, err := client.PutObject(ctx, bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/plain"}); err != nil {
		fmt.Printf("❌ Failed: %v\n", err)
		return failed + 1
	}
	fmt.Println("✓ OK")

	fmt.Print("Testing StatObject... ")
	if _, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		fmt.Printf("❌ Failed: %v\n", err)
		failed++
	} else {
		fmt.Println("✓ OK")
	}

	fmt.Print("Testing RemoveObject... ")
	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		fmt.Printf("❌ Failed: %v\n", err)
		failed++
	} else {
		fmt.Println("✓ OK")
	}

	return failed
}
