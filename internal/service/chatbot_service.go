package service

import (
	"strings"
)

// ChatbotService - ассистент с фиксированной таблицей ответов по ключевым
// словам. Ответы на французском, как в клиентском виджете.
type ChatbotService struct{}

// NewChatbotService создаёт сервис чат-бота.
func NewChatbotService() *ChatbotService {
	return &ChatbotService{}
}

// Greeting возвращает приветственное сообщение ассистента.
func (s *ChatbotService) Greeting() string {
	return "Bonjour ! Je suis l'assistant virtuel de MORICE. Comment puis-je vous aider ?"
}

// Reply подбирает ответ по ключевым словам сообщения пользователя.
// Порядок проверок значим: первое совпадение выигрывает.
func (s *ChatbotService) Reply(message string) string {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "bonjour") || strings.Contains(msg, "salut"):
		return "Bonjour ! Comment puis-je vous aider aujourd'hui ?"
	case strings.Contains(msg, "aide"):
		return "Bien sûr. Vous pouvez me poser des questions sur MORICE, comment démarrer un dossier, ou sur le processus d'arbitrage."
	case strings.Contains(msg, "morice"):
		return "MORICE est une plateforme d'arbitrage virtuel qui utilise l'IA pour analyser des litiges et proposer des solutions équitables, conformément au droit québécois."
	case strings.Contains(msg, "dossier") || strings.Contains(msg, "commencer"):
		return "Pour démarrer un dossier, cliquez sur 'Démarrer une analyse' sur la page d'accueil. Vous devrez vous inscrire ou vous connecter, puis suivre les étapes pour soumettre votre cas."
	case strings.Contains(msg, "processus") || strings.Contains(msg, "comment ça marche"):
		return "Le processus est simple : 1. Soumettez votre dossier. 2. Notre IA analyse vos documents. 3. Vous répondez à quelques questions de clarification. 4. Vous recevez un rapport complet."
	case strings.Contains(msg, "coût") || strings.Contains(msg, "prix") || strings.Contains(msg, "tarif"):
		return "L'analyse initiale d'un dossier est soumise à des frais de traitement. Pour plus de détails, veuillez consulter notre page de tarification (bientôt disponible)."
	case strings.Contains(msg, "avocat"):
		return "MORICE ne remplace pas un avocat, mais peut servir d'outil pour vous et votre conseiller juridique. Vous pouvez indiquer si vous êtes représenté par un avocat lors de l'inscription."
	case strings.Contains(msg, "sécurité") || strings.Contains(msg, "confidentiel"):
		return "La sécurité de vos données est notre priorité. Toutes les informations sont chiffrées et traitées de manière confidentielle."
	default:
		return "Je ne suis pas sûr de comprendre. Pouvez-vous reformuler ? Vous pouvez demander 'aide' pour voir ce que je peux faire."
	}
}
