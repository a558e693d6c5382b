package service

import (
	"context"
	"encoding/json"
	"fmt"

	"kuruma/pkg/genai"
)

const assistantSystemPrompt = `You are the showroom assistant for Kuruma Motors, an online vehicle
dealership. Answer questions about vehicles, financing, deposits and
giveaways. Be concise and friendly. If asked about payment problems, direct
the customer to the support mailbox. Never invent prices; say you will check
with the sales team instead.`

// vehicleDraftSchema constrains autofill output to the catalog field shape.
var vehicleDraftSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"type": {"type": "string", "enum": ["SEDAN", "SUV", "TRUCK", "VAN", "SPORTS", "MOTORBIKE"]},
		"price_yen": {"type": "integer"},
		"description": {"type": "string"},
		"specs": {
			"type": "object",
			"properties": {
				"engine": {"type": "string"},
				"transmission": {"type": "string"},
				"fuel": {"type": "string"},
				"seats": {"type": "integer"},
				"year": {"type": "integer"}
			},
			"required": ["engine", "transmission", "fuel", "seats", "year"]
		}
	},
	"required": ["type", "price_yen", "description", "specs"]
}`)

// VehicleDraft is the AI-suggested starting point for a new catalog entry.
// An admin reviews and edits it before publishing; nothing is stored
// unreviewed.
type VehicleDraft struct {
	Type        string `json:"type"`
	PriceYen    int64  `json:"price_yen"`
	Description string `json:"description"`
	Specs       struct {
		Engine       string `json:"engine"`
		Transmission string `json:"transmission"`
		Fuel         string `json:"fuel"`
		Seats        int    `json:"seats"`
		Year         int    `json:"year"`
	} `json:"specs"`
}

type AssistantService struct {
	client *genai.Client
}

func NewAssistantService(client *genai.Client) *AssistantService {
	return &AssistantService{client: client}
}

// Chat runs one assistant turn with prior history.
func (s *AssistantService) Chat(ctx context.Context, history []genai.Turn, message string) (string, error) {
	return s.client.GenerateText(ctx, assistantSystemPrompt, history, message)
}

// AutofillVehicle drafts catalog fields for a vehicle name.
func (s *AssistantService) AutofillVehicle(ctx context.Context, name string) (*VehicleDraft, error) {
	prompt := fmt.Sprintf(
		"Draft a dealership catalog entry for the vehicle %q sold in Japan. "+
			"Give a realistic market price in yen, a two-sentence sales description, "+
			"and plausible specs.", name)
	var draft VehicleDraft
	if err := s.client.GenerateJSON(ctx, prompt, vehicleDraftSchema, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
