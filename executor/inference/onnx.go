// Package inference wraps an ONNX Runtime session behind the Predictor
// interface, batching concurrent requests into single model invocations.
package inference

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"boulderdash/executor/convert"
	"boulderdash/game"
	"boulderdash/rules"
)

const (
	PolicySize = rules.NumMoves
	ValueSize  = 1
)

const (
	DefaultBatchSize    = 128
	DefaultBatchTimeout = 1 * time.Millisecond
)

type OnnxClientConfig struct {
	BatchSize    int
	BatchTimeout time.Duration
}

type inferenceRequest struct {
	input    []float32
	respChan chan inferenceResponse
}

type inferenceResponse struct {
	policy []float32
	value  []float32
	err    error
}

// OnnxClient implements the inference engine using ONNX Runtime with batching
type OnnxClient struct {
	session      *ort.DynamicAdvancedSession
	encoder      *convert.Encoder
	requestsChan chan inferenceRequest
	cfg          OnnxClientConfig
}

var ortInitOnce sync.Once
var ortInitErr error

func NewOnnxClient(modelPath string, encoder *convert.Encoder) (*OnnxClient, error) {
	return NewOnnxClientWithConfig(modelPath, encoder, OnnxClientConfig{
		BatchSize:    DefaultBatchSize,
		BatchTimeout: DefaultBatchTimeout,
	})
}

func NewOnnxClientWithConfig(modelPath string, encoder *convert.Encoder, cfg OnnxClientConfig) (*OnnxClient, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}

	if runtime.GOOS == "linux" {
		if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		} else {
			cwd, _ := os.Getwd()
			candidates := []string{
				"libonnxruntime.so",
				"libonnxruntime.so.1",
			}
			for _, name := range candidates {
				abs := filepath.Join(cwd, name)
				if _, err := os.Stat(abs); err == nil {
					ort.SetSharedLibraryPath(abs)
					break
				}
			}
		}
	}

	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to init ort: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()

	inputs := []string{"input"}
	outputs := []string{"policy", "value"}

	// Set intra-op threads to 1 to avoid contention since we have many workers
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	// Try to use CUDA if available
	cudaOptions, err := ort.NewCUDAProviderOptions()
	if err == nil {
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			fmt.Println("Failed to append CUDA provider:", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputs, outputs, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client := &OnnxClient{
		session:      session,
		encoder:      encoder,
		cfg:          cfg,
		requestsChan: make(chan inferenceRequest, cfg.BatchSize*2),
	}

	go client.batchLoop()

	return client, nil
}

func (c *OnnxClient) Close() error {
	return c.session.Destroy()
}

// Predict encodes the state and queues it for the next batch. Blocks until
// the batch containing it has run.
func (c *OnnxClient) Predict(state *game.GameState) ([]float32, []float32, error) {
	floatsPtr := c.encoder.StateToFloat32(state)
	input := make([]float32, c.encoder.FloatSize())
	copy(input, *floatsPtr)
	c.encoder.PutFloatBuffer(floatsPtr)

	respChan := make(chan inferenceResponse, 1)
	c.requestsChan <- inferenceRequest{
		input:    input,
		respChan: respChan,
	}

	resp := <-respChan
	return resp.policy, resp.value, resp.err
}

func (c *OnnxClient) batchLoop() {
	inputSize := c.encoder.FloatSize()
	batchInput := make([]float32, 0, c.cfg.BatchSize*inputSize)
	requests := make([]inferenceRequest, 0, c.cfg.BatchSize)

	ticker := time.NewTicker(c.cfg.BatchTimeout)
	defer ticker.Stop()

	for {
		select {
		case req := <-c.requestsChan:
			requests = append(requests, req)
			batchInput = append(batchInput, req.input...)

			if len(requests) >= c.cfg.BatchSize {
				c.runBatch(requests, batchInput)
				requests = requests[:0]
				batchInput = batchInput[:0]
			}
		case <-ticker.C:
			if len(requests) > 0 {
				c.runBatch(requests, batchInput)
				requests = requests[:0]
				batchInput = batchInput[:0]
			}
		}
	}
}

func (c *OnnxClient) runBatch(requests []inferenceRequest, batchInput []float32) {
	currentBatchSize := int64(len(requests))
	shape := c.encoder.Shape()

	inputShape := []int64{currentBatchSize, int64(shape[0]), int64(shape[1]), int64(shape[2])}
	inputTensor, err := ort.NewTensor(ort.NewShape(inputShape...), batchInput)
	if err != nil {
		c.failBatch(requests, err)
		return
	}
	defer inputTensor.Destroy()

	policyShape := []int64{currentBatchSize, PolicySize}
	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(policyShape...))
	if err != nil {
		c.failBatch(requests, err)
		return
	}
	defer policyTensor.Destroy()

	valueShape := []int64{currentBatchSize, ValueSize}
	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(valueShape...))
	if err != nil {
		c.failBatch(requests, err)
		return
	}
	defer valueTensor.Destroy()

	err = c.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor})
	if err != nil {
		c.failBatch(requests, err)
		return
	}

	policyData := policyTensor.GetData()
	valueData := valueTensor.GetData()

	for i, req := range requests {
		policy := make([]float32, PolicySize)
		copy(policy, policyData[i*PolicySize:(i+1)*PolicySize])

		value := make([]float32, ValueSize)
		copy(value, valueData[i*ValueSize:(i+1)*ValueSize])

		req.respChan <- inferenceResponse{
			policy: policy,
			value:  value,
		}
	}
}

func (c *OnnxClient) failBatch(requests []inferenceRequest, err error) {
	for _, req := range requests {
		req.respChan <- inferenceResponse{err: err}
	}
}
