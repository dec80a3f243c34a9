package taskstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// DefaultKeyPrefix is the layout's default task key prefix, "a2a:task:".
const DefaultKeyPrefix = "a2a:task:"

// KV is the key-value cache driver: each task serializes to a single
// object under <prefix><id>; List scans the prefix. Configuring TTL
// requires the bucket to already carry at least one lifecycle rule —
// otherwise construction fails, matching the store contract's refusal
// to silently ignore an unsupported TTL. The rule's own prefix is not
// compared with the driver's key prefix.
type KV struct {
	client *minio.Client
	bucket string
	prefix string
	ttl    time.Duration
}

// NewKV validates the TTL precondition (when ttl > 0, bucket must already
// have at least one lifecycle rule, whatever prefix it covers) before
// returning a usable driver.
func NewKV(client *minio.Client, bucket, prefix string, ttl time.Duration) (*KV, error) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl > 0 {
		cfg, err := client.GetBucketLifecycle(context.Background(), bucket)
		if err != nil {
			return nil, fmt.Errorf("ttl requested but bucket lifecycle is unreadable: %w", err)
		}
		if cfg == nil || len(cfg.Rules) == 0 {
			return nil, fmt.Errorf("ttl requested but bucket %q has no lifecycle rule for prefix %q", bucket, prefix)
		}
	}
	return &KV{client: client, bucket: bucket, prefix: prefix, ttl: ttl}, nil
}

func (k *KV) key(taskID string) string { return k.prefix + taskID }

func (k *KV) Create(task *a2a.Task) error {
	return k.put(task)
}

func (k *KV) put(task *a2a.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	_, err = k.client.PutObject(context.Background(), k.bucket, k.key(task.ID),
		bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

func (k *KV) Get(taskID string) (*a2a.Task, error) {
	obj, err := k.client.GetObject(context.Background(), k.bucket, k.key(taskID), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if errResp := minio.ToErrorResponse(err); errResp.Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("read task: %w", err)
	}

	var task a2a.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

func (k *KV) Update(taskID string, mutate func(*a2a.Task)) error {
	task, err := k.Get(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	mutate(task)
	return k.put(task)
}

func (k *KV) List(filter Filter) ([]*a2a.Task, bool, error) {
	ctx := context.Background()
	var matched []*a2a.Task

	for obj := range k.client.ListObjects(ctx, k.bucket, minio.ListObjectsOptions{Prefix: k.prefix, Recursive: true}) {
		if obj.Err != nil {
			log.Error("kv task store list error", "error", obj.Err)
			continue
		}
		taskID := strings.TrimPrefix(obj.Key, k.prefix)
		task, err := k.Get(taskID)
		if err != nil || task == nil {
			continue
		}
		if filter.ContextID != "" && task.ContextID != filter.ContextID {
			continue
		}
		if filter.State != "" && task.Status.State != filter.State {
			continue
		}
		matched = append(matched, task)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Status.Timestamp.After(matched[j].Status.Timestamp)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*a2a.Task{}, false, nil
	}
	end := len(matched)
	if filter.Limit != nil && offset+*filter.Limit < end {
		end = offset + *filter.Limit
	}

	return matched[offset:end], end < len(matched), nil
}

func (k *KV) Delete(taskID string) error {
	err := k.client.RemoveObject(context.Background(), k.bucket, k.key(taskID), minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
