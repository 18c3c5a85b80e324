package api

// InputType discriminates the three /predict request shapes.
type InputType string

const (
	InputText InputType = "text"
	InputURL  InputType = "url"
	InputPDF  InputType = "pdf"
)

// Label values returned by the classifier.
const (
	LabelReal = "Real"
	LabelFake = "Fake"
)

// PredictRequest is the body of a /predict call. Exactly one of Text, URL or
// PDFBase64 is set, matching InputType.
type PredictRequest struct {
	InputType InputType `json:"input_type"`
	Text      string    `json:"text,omitempty"`
	URL       string    `json:"url,omitempty"`
	PDFBase64 string    `json:"pdf_base64,omitempty"`
}

// Verification is the LLM second-opinion pass the backend runs when the
// classifier's confidence is low.
type Verification struct {
	Prediction string `json:"prediction"`
	Reasoning  string `json:"reasoning"`
}

// Probabilities holds the per-class softmax output.
type Probabilities struct {
	Fake float64 `json:"fake"`
	Real float64 `json:"real"`
}

// PredictionResult is the outcome of a single analysis request.
type PredictionResult struct {
	Label             string        `json:"label"`
	Confidence        float64       `json:"confidence"`
	NeedsVerification bool          `json:"needs_verification"`
	Probabilities     Probabilities `json:"probabilities"`
	ArticleText       string        `json:"article_text,omitempty"`
	ContextID         string        `json:"context_id,omitempty"`
	AutoVerification  *Verification `json:"auto_verification,omitempty"`
}

// Final returns the authoritative verdict: the verification prediction when
// present, the raw model label otherwise.
func (r *PredictionResult) Final() string {
	if r.AutoVerification != nil && r.AutoVerification.Prediction != "" {
		return r.AutoVerification.Prediction
	}
	return r.Label
}

// Verified reports whether the verdict comes from the LLM verification pass.
func (r *PredictionResult) Verified() bool {
	return r.AutoVerification != nil
}

// AskRequest is the body of an /ask call. ContextID is empty for standalone
// questions with no article grounding.
type AskRequest struct {
	ContextID string `json:"context_id,omitempty"`
	Question  string `json:"question"`
}

// AskResponse is the body of a successful /ask reply.
type AskResponse struct {
	Answer string `json:"answer"`
}

// VerifyRequest is the body of a /verify call.
type VerifyRequest struct {
	ArticleText string `json:"article_text"`
}

// VerifyResponse is the body of a successful /verify reply.
type VerifyResponse struct {
	Prediction string `json:"prediction"`
	Reasoning  string `json:"reasoning"`
	Raw        string `json:"raw,omitempty"`
}

// HealthResponse is the body of a /health reply.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Device string `json:"device"`
}
