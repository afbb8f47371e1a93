package service

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrLessonLocked is returned when a lesson of a locked module is requested.
	ErrLessonLocked = errors.New("lesson is locked")
	// ErrQuestionNotFound is returned for a quiz index out of range.
	ErrQuestionNotFound = errors.New("quiz question not found")
	// ErrInvalidOption is returned for an answer index out of range.
	ErrInvalidOption = errors.New("invalid quiz option")
	// ErrEmptyTopic is returned when no topic is given.
	ErrEmptyTopic = errors.New("topic is required")
)

// LearningModule is a course of lessons.
type LearningModule struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Lessons  []string `json:"lessons"`
	Progress int      `json:"progress"`
	Locked   bool     `json:"locked"`
}

// QuizQuestion is a multiple-choice question. The answer is not exposed.
type QuizQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	answer   int
}

// QuizAnswer is the verdict on a submitted option.
type QuizAnswer struct {
	Correct     bool `json:"correct"`
	AnswerIndex int  `json:"answer_index"`
	NextIndex   *int `json:"next_index,omitempty"`
}

// Lesson is generated explanatory content for a topic.
type Lesson struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// EducationService serves the learning modules, the quiz and generated lessons.
type EducationService interface {
	Modules(ctx context.Context) []LearningModule
	Quiz(ctx context.Context) []QuizQuestion
	AnswerQuiz(ctx context.Context, index, option int) (*QuizAnswer, error)
	Lesson(ctx context.Context, topic string) (*Lesson, error)
}

var learningModules = []LearningModule{
	{ID: "mod1", Title: "Foundations of Quant Trading", Lessons: []string{"Market Efficiency", "The Alpha Search", "Execution Algorithms"}, Progress: 100},
	{ID: "mod2", Title: "Sentiment Data Engineering", Lessons: []string{"NLP with FinBERT", "Social Media Scraping", "Signal Weighting"}, Progress: 45},
	{ID: "mod3", Title: "Deep Learning for Finance", Lessons: []string{"Transformers Explained", "LSTM Time-Series", "Attention Mechanisms"}},
	{ID: "mod4", Title: "Risk & Backtesting Mastery", Lessons: []string{"Sharpe vs Sortino", "Monte Carlo Sim", "Overfitting Dangers"}, Locked: true},
}

var quizQuestions = []QuizQuestion{
	{
		Question: "What does the Sharpe Ratio specifically measure?",
		Options: []string{
			"Total return of an investment",
			"Risk-adjusted return relative to the risk-free rate",
			"Maximum peak-to-trough decline",
			"The accuracy of a deep learning model",
		},
		answer: 1,
	},
	{
		Question: "Which neural network part is crucial for 'Self-Attention' in financial sequences?",
		Options: []string{
			"The LSTM Gate",
			"The Transformer Encoder",
			"The Sigmoid Output",
			"The Dropout Layer",
		},
		answer: 1,
	},
}

type educationService struct {
	insights InsightService
}

// NewEducationService creates a new education service.
func NewEducationService(insights InsightService) EducationService {
	return &educationService{insights: insights}
}

func (s *educationService) Modules(ctx context.Context) []LearningModule {
	modules := make([]LearningModule, len(learningModules))
	for i, m := range learningModules {
		m.Lessons = append([]string{}, m.Lessons...)
		modules[i] = m
	}
	return modules
}

func (s *educationService) Quiz(ctx context.Context) []QuizQuestion {
	questions := make([]QuizQuestion, len(quizQuestions))
	for i, q := range quizQuestions {
		questions[i] = QuizQuestion{Index: i, Question: q.Question, Options: append([]string{}, q.Options...)}
	}
	return questions
}

func (s *educationService) AnswerQuiz(ctx context.Context, index, option int) (*QuizAnswer, error) {
	if index < 0 || index >= len(quizQuestions) {
		return nil, ErrQuestionNotFound
	}
	q := quizQuestions[index]
	if option < 0 || option >= len(q.Options) {
		return nil, ErrInvalidOption
	}

	answer := &QuizAnswer{Correct: option == q.answer, AnswerIndex: q.answer}
	if next := index + 1; next < len(quizQuestions) {
		answer.NextIndex = &next
	}
	return answer, nil
}

// Lesson explains a topic. Lessons of locked modules are refused; other topics are free-form.
func (s *educationService) Lesson(ctx context.Context, topic string) (*Lesson, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	for _, m := range learningModules {
		if !m.Locked {
			continue
		}
		for _, l := range m.Lessons {
			if strings.EqualFold(l, topic) {
				return nil, ErrLessonLocked
			}
		}
	}
	return &Lesson{Topic: topic, Content: s.insights.EducationalContent(ctx, topic)}, nil
}
