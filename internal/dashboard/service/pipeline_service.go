package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/utils"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	trainingEpochs    = 20
	trainingLogWindow = 8
	initialLoss       = 0.85
	initialValAcc     = 0.51
	maxLossStep       = 0.04
	maxValAccStep     = 0.015
)

// ErrTrainingInProgress is returned when a training session is started while another runs.
var ErrTrainingInProgress = errors.New("training already in progress")

var trainingPreamble = []string{
	"[INFO] Initializing PyTorch environment...",
	"[INFO] Loading 10-year OHLCV + Sentiment dataset...",
	"[INFO] Sequence length: 30 days | Batch size: 64",
}

const trainingComplete = "[SUCCESS] Training complete. Model weights saved to syed_quant_v1.pth"

// PipelineStep describes one stage of the research pipeline.
type PipelineStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Code        string `json:"code"`
}

var pipelineSteps = []PipelineStep{
	{
		Title:       "Data Acquisition",
		Description: "Multi-source financial & social data scraping.",
		Details:     "Utilizes yfinance for OHLCV, BeautifulSoup for news, and PRAW for Reddit sentiment sourcing (r/stocks, r/wallstreetbets).",
		Code: `import yfinance as yf
import praw

# Fetch financial data
data = yf.download("NVDA", start="2015-01-01")

# Fetch Reddit sentiment
reddit = praw.Reddit(client_id='ID', client_secret='SECRET')
posts = reddit.subreddit('stocks').top(limit=100)`,
	},
	{
		Title:       "Preprocessing & NLP",
		Description: "Cleaning & FinBERT sentiment scoring.",
		Details:     "Text is cleaned (regex) and passed to ProsusAI/finbert. Scores are aggregated daily using weighted upvotes.",
		Code: `from transformers import AutoTokenizer, AutoModelForSequenceClassification

tokenizer = AutoTokenizer.from_pretrained("ProsusAI/finbert")
model = AutoModelForSequenceClassification.from_pretrained("ProsusAI/finbert")

def get_sentiment(text):
    inputs = tokenizer(text, return_tensors="pt")
    outputs = model(**inputs)
    return outputs.logits.softmax(dim=-1)`,
	},
	{
		Title:       "Model 1: Transformer+LSTM",
		Description: "Deep Learning for temporal dependencies.",
		Details:     "A hybrid architecture where the Transformer layer handles multi-head attention over sentiment, and the LSTM captures long-term price trends.",
		Code: `class HybridModel(nn.Module):
    def __init__(self):
        self.transformer = nn.TransformerEncoderLayer(d_model=64, nhead=4)
        self.lstm = nn.LSTM(input_size=64, hidden_size=128)
        self.fc = nn.Linear(128, 1)

    def forward(self, x):
        x = self.transformer(x)
        _, (h_n, _) = self.lstm(x)
        return torch.sigmoid(self.fc(h_n))`,
	},
	{
		Title:       "Model 2: XGBoost Regressor",
		Description: "Tree-based baseline for tabular features.",
		Details:     "Handles technical indicators (RSI, MACD) and flattened 30-day lag sentiment features with gradient boosting.",
		Code: `import xgboost as xgb

model = xgb.XGBClassifier(
    n_estimators=1000,
    max_depth=6,
    learning_rate=0.01
)
model.fit(X_train, y_train)`,
	},
}

// EpochMetrics is one point of the learning curve. ValAcc is a percentage.
type EpochMetrics struct {
	Epoch  int     `json:"epoch"`
	Loss   float64 `json:"loss"`
	ValAcc float64 `json:"val_acc"`
}

// TrainingStatus is a snapshot of the simulated training session.
type TrainingStatus struct {
	Running bool           `json:"running"`
	Epochs  int            `json:"epochs"`
	Logs    []string       `json:"logs"`
	Curve   []EpochMetrics `json:"curve"`
}

// PipelineService describes the research pipeline and simulates model training.
type PipelineService interface {
	Steps(ctx context.Context) []PipelineStep
	StartTraining(ctx context.Context) (TrainingStatus, error)
	Training(ctx context.Context) TrainingStatus
	Wait()
	Close()
}

type pipelineService struct {
	mu            sync.Mutex
	unit          distuv.Uniform
	epochInterval time.Duration
	logger        *logger.Logger

	status  TrainingStatus
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewPipelineService creates a pipeline service that advances one epoch per epochInterval.
// A nil src draws from the global source.
func NewPipelineService(src rand.Source, epochInterval time.Duration, logger *logger.Logger) PipelineService {
	return &pipelineService{
		unit:          distuv.Uniform{Min: 0, Max: 1, Src: src},
		epochInterval: epochInterval,
		logger:        logger,
		status:        TrainingStatus{Epochs: trainingEpochs, Logs: []string{}, Curve: []EpochMetrics{}},
	}
}

func (s *pipelineService) Steps(ctx context.Context) []PipelineStep {
	return append([]PipelineStep(nil), pipelineSteps...)
}

// StartTraining resets the session and runs it in the background. The session outlives ctx
// and stops on Close.
func (s *pipelineService) StartTraining(ctx context.Context) (TrainingStatus, error) {
	s.mu.Lock()
	if s.status.Running {
		defer s.mu.Unlock()
		return s.snapshot(), ErrTrainingInProgress
	}
	s.status = TrainingStatus{
		Running: true,
		Epochs:  trainingEpochs,
		Logs:    append([]string{}, trainingPreamble...),
		Curve:   []EpochMetrics{},
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.running.Add(1)
	started := s.snapshot()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Training simulation started", logger.IntField("epochs", trainingEpochs))
	utils.GoSafe(func() {
		defer s.running.Done()
		defer cancel()
		s.train(runCtx)
	})
	return started, nil
}

func (s *pipelineService) Training(ctx context.Context) TrainingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot copies the status. Callers hold mu.
func (s *pipelineService) snapshot() TrainingStatus {
	st := s.status
	st.Logs = append([]string{}, s.status.Logs...)
	st.Curve = append([]EpochMetrics{}, s.status.Curve...)
	return st
}

// Wait blocks until the current session ends.
func (s *pipelineService) Wait() {
	s.running.Wait()
}

// Close interrupts a running session and waits for it to stop.
func (s *pipelineService) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.running.Wait()
}

func (s *pipelineService) train(ctx context.Context) {
	loss, valAcc := initialLoss, initialValAcc
	for epoch := 1; epoch <= trainingEpochs; epoch++ {
		if err := s.sleep(ctx); err != nil {
			s.finish(fmt.Sprintf("[WARN] Training interrupted at epoch %d/%d", epoch, trainingEpochs))
			s.logger.InfoContext(ctx, "Training simulation interrupted", logger.IntField("epoch", epoch))
			return
		}

		s.mu.Lock()
		loss -= s.unit.Rand() * maxLossStep
		valAcc += s.unit.Rand() * maxValAccStep
		line := fmt.Sprintf("Epoch %d/%d - Loss: %.4f - Val Accuracy: %.2f%%", epoch, trainingEpochs, loss, valAcc*100)
		s.status.Logs = appendRolling(s.status.Logs, line, trainingLogWindow)
		s.status.Curve = append(s.status.Curve, EpochMetrics{
			Epoch:  epoch,
			Loss:   utils.Round(loss, 4),
			ValAcc: utils.Round(valAcc*100, 2),
		})
		s.mu.Unlock()
	}

	s.finish(trainingComplete)
	s.logger.InfoContext(ctx, "Training simulation complete",
		logger.FloatField("loss", utils.Round(loss, 4)),
		logger.FloatField("val_acc_pct", utils.Round(valAcc*100, 2)),
	)
}

func (s *pipelineService) sleep(ctx context.Context) error {
	if s.epochInterval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.epochInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *pipelineService) finish(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.Logs = append(s.status.Logs, line)
}

// appendRolling keeps the last window lines of logs and then appends line.
func appendRolling(logs []string, line string, window int) []string {
	if len(logs) > window {
		logs = logs[len(logs)-window:]
	}
	return append(append(make([]string, 0, len(logs)+1), logs...), line)
}
