package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatbotService_Greeting(t *testing.T) {
	svc := NewChatbotService()
	assert.Contains(t, svc.Greeting(), "assistant virtuel de MORICE")
}

func TestChatbotService_Reply(t *testing.T) {
	svc := NewChatbotService()

	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"salutation", "Bonjour !", "Comment puis-je vous aider aujourd'hui ?"},
		{"salutation en majuscules", "SALUT", "Comment puis-je vous aider aujourd'hui ?"},
		{"aide", "j'ai besoin d'aide", "poser des questions sur MORICE"},
		{"plateforme", "c'est quoi morice ?", "plateforme d'arbitrage virtuel"},
		{"dossier", "comment commencer un dossier ?", "Démarrer une analyse"},
		{"processus", "expliquez-moi le processus", "Soumettez votre dossier"},
		{"tarif", "quel est le prix ?", "frais de traitement"},
		{"avocat", "est-ce que je dois prendre un avocat ?", "ne remplace pas un avocat"},
		{"confidentialité", "mes données sont-elles confidentielles ?", "chiffrées"},
		{"inconnu", "quelle heure est-il ?", "Pouvez-vous reformuler ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, svc.Reply(tt.message), tt.expected)
		})
	}
}

// Порядок проверок значим: "bonjour" выигрывает у "aide" в одном сообщении.
func TestChatbotService_Reply_FirstMatchWins(t *testing.T) {
	svc := NewChatbotService()
	assert.Contains(t, svc.Reply("bonjour, j'ai besoin d'aide"), "Comment puis-je vous aider aujourd'hui ?")
}
