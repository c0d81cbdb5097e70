package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
)

// CaseAnalysis - результат предварительного анализа дела. Содержимое
// симулируется, текст на французском отдаётся клиенту как есть.
type CaseAnalysis struct {
	CaseID         uuid.UUID      `json:"case_id"`
	Confidence     int            `json:"confidence"`
	Summary        string         `json:"summary"`
	KeyFindings    []string       `json:"key_findings"`
	LegalBasis     []string       `json:"legal_basis"`
	Recommendation Recommendation `json:"recommendations"`
	Risk           RiskAssessment `json:"risk_assessment"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// Recommendation - рекомендации анализа.
type Recommendation struct {
	Primary         string   `json:"primary"`
	Alternatives    []string `json:"alternatives"`
	EstimatedAmount string   `json:"estimated_amount"`
}

// RiskAssessment - оценка рисков дела.
type RiskAssessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// FinalReport - итоговый отчёт: снимок дела, анализ и обязательный дисклеймер.
type FinalReport struct {
	Case       *models.Case `json:"case"`
	Analysis   CaseAnalysis `json:"analysis"`
	Disclaimer string       `json:"disclaimer"`
}

// DocumentScan - результат симулированного разбора текста документа.
type DocumentScan struct {
	Type      string       `json:"type"`
	Summary   string       `json:"summary"`
	Entities  []ScanEntity `json:"extracted_entities"`
	Clauses   []ScanClause `json:"key_clauses"`
	Relevance string       `json:"relevance"`
}

// ScanEntity - извлечённая из текста сущность.
type ScanEntity struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScanClause - найденная в тексте ключевая оговорка.
type ScanClause struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

const reportDisclaimer = "Avertissement : Ce document est généré par MORICE et est fourni à titre informatif uniquement. Il ne constitue pas un conseil juridique."

// AnalysisService выдаёт симулированные анализы и отчёты по делам.
// Доступ к самим делам делегируется движку жизненного цикла, который
// проверяет владение.
type AnalysisService struct {
	lifecycle *LifecycleService
}

// NewAnalysisService создаёт сервис анализа.
func NewAnalysisService(lifecycle *LifecycleService) *AnalysisService {
	return &AnalysisService{lifecycle: lifecycle}
}

// GetAnalysis возвращает анализ дела. Доступен после завершения анализа
// документов (статус analysis_ready и дальше).
func (s *AnalysisService) GetAnalysis(ctx context.Context, caseID, userID uuid.UUID) (*CaseAnalysis, error) {
	c, err := s.lifecycle.GetCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	if c.Status == models.CaseStatusSubmitted {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("l'analyse du dossier #%s n'est pas encore terminée", c.ShortID()))
	}

	analysis := buildCaseAnalysis(c)
	return &analysis, nil
}

// GetFinalReport возвращает итоговый отчёт. Доступен только после
// завершения финального анализа.
func (s *AnalysisService) GetFinalReport(ctx context.Context, caseID, userID uuid.UUID) (*FinalReport, error) {
	c, err := s.lifecycle.GetCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	if c.Status != models.CaseStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("le rapport final du dossier #%s n'est pas encore disponible", c.ShortID()))
	}

	analysis := buildCaseAnalysis(c)
	return &FinalReport{
		Case:       c,
		Analysis:   analysis,
		Disclaimer: reportDisclaimer,
	}, nil
}

// buildCaseAnalysis формирует фиксированный анализ дела.
func buildCaseAnalysis(c *models.Case) CaseAnalysis {
	return CaseAnalysis{
		CaseID:     c.ID,
		Confidence: 85,
		Summary:    "Analyse d'un litige contractuel concernant une prestation de service non conforme aux termes convenus.",
		KeyFindings: []string{
			"Contrat valide signé entre les parties le 15 mars 2024",
			"Prestation livrée avec 3 semaines de retard",
			"Qualité du service inférieure aux spécifications",
			"Tentatives de résolution amiable documentées",
		},
		LegalBasis: []string{
			"Code civil du Québec, art. 1590 - Exécution de l'obligation",
			"Code civil du Québec, art. 1604 - Demeure du débiteur",
			"Loi sur la protection du consommateur, art. 272",
		},
		Recommendation: Recommendation{
			Primary: "Demande de résolution amiable avec compensation partielle",
			Alternatives: []string{
				"Médiation par un tiers neutre",
				"Recours en dommages-intérêts limités",
				"Résiliation du contrat avec remboursement",
			},
			EstimatedAmount: "2,500 - 4,000 CAD",
		},
		Risk: RiskAssessment{
			Level: "Modéré",
			Factors: []string{
				"Documentation solide du contrat initial",
				"Preuves de non-conformité disponibles",
				"Tentatives de résolution documentées",
				"Montant en litige raisonnable",
			},
		},
		GeneratedAt: c.UpdatedAt,
	}
}

var (
	scanNameRe   = regexp.MustCompile(`(?:M\.|Mme|Monsieur|Madame)\s+([A-ZÉÈÀ][a-zéèàç]+)\s+([A-ZÉÈÀ][a-zéèàç]+)`)
	scanDateRe   = regexp.MustCompile(`\d{1,2}\s+(?:janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+\d{4}`)
	scanAmountRe = regexp.MustCompile(`\d[\d\s,.]*\s*(?:CAD|\$|euros)`)
	scanClauseRe = regexp.MustCompile(`(?i)(?:clause|article|section)\s+\d+`)
)

// ScanText строит симулированный разбор извлечённого из документа текста по
// эвристикам: классификация по ключевым словам, имена, даты, суммы, оговорки.
func ScanText(text string) DocumentScan {
	if strings.TrimSpace(text) == "" {
		return DocumentScan{
			Type:      "Non déterminé",
			Summary:   "Le texte n'a pas pu être extrait ou est trop court pour une analyse significative.",
			Entities:  []ScanEntity{},
			Clauses:   []ScanClause{},
			Relevance: "Impossible de déterminer la pertinence sans contenu textuel.",
		}
	}

	lower := strings.ToLower(text)

	docType := "Document général"
	if strings.Contains(lower, "contrat") {
		docType = "Contrat"
	}
	if strings.Contains(lower, "facture") {
		docType = "Facture"
	}
	if strings.Contains(lower, "mise en demeure") {
		docType = "Mise en demeure"
	}

	topic := "termes et conditions"
	if strings.Contains(lower, "paiement") {
		topic = "questions financières"
	}
	summary := fmt.Sprintf("Ce document semble être un(e) %s. L'analyse préliminaire du texte suggère qu'il traite de %s. Le contenu mentionne des éléments clés qui nécessitent une attention particulière.", docType, topic)

	entities := []ScanEntity{}
	for _, m := range scanNameRe.FindAllStringSubmatch(text, -1) {
		entities = append(entities, ScanEntity{Label: "Personne mentionnée", Value: m[1] + " " + m[2]})
	}
	if len(entities) == 0 {
		entities = append(entities, ScanEntity{Label: "Parties", Value: "Non identifiées"})
	}
	if date := scanDateRe.FindString(text); date != "" {
		entities = append(entities, ScanEntity{Label: "Date identifiée", Value: date})
	}
	if amount := scanAmountRe.FindString(text); amount != "" {
		entities = append(entities, ScanEntity{Label: "Montant identifié", Value: strings.TrimSpace(amount)})
	}
	if len(entities) > 4 {
		entities = entities[:4]
	}

	clauses := []ScanClause{}
	if ref := scanClauseRe.FindString(text); ref != "" {
		clauses = append(clauses, ScanClause{
			Title:   "Référence à " + ref,
			Content: "Le texte fait référence à cette section, une analyse approfondie est recommandée.",
		})
	}
	if strings.Contains(lower, "résiliation") {
		clauses = append(clauses, ScanClause{
			Title:   "Clause potentielle de Résiliation",
			Content: "Des termes liés à la fin du contrat semblent présents.",
		})
	}
	if len(clauses) > 3 {
		clauses = clauses[:3]
	}

	return DocumentScan{
		Type:      docType,
		Summary:   summary,
		Entities:  entities,
		Clauses:   clauses,
		Relevance: fmt.Sprintf("Ce document est probablement pertinent car il s'agit d'un(e) %s qui établit des faits ou des obligations entre les parties.", docType),
	}
}
