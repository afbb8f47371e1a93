package dto

// LessonRequest asks for generated content on a topic.
type LessonRequest struct {
	Topic string `json:"topic" example:"Sharpe vs Sortino"`
}

// QuizAnswerRequest submits an option for a quiz question.
type QuizAnswerRequest struct {
	Option int `json:"option" example:"1"`
}
