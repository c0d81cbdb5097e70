package models

// CaseType константы типов споров
const (
	CaseTypeContract = "contract"
	CaseTypeConsumer = "consumer"
	CaseTypeService  = "service"
	CaseTypeRental   = "rental"
	CaseTypeNeighbor = "neighbor"
	CaseTypeOther    = "other"
)

// ValidCaseTypes список валидных типов споров
var ValidCaseTypes = map[string]struct{}{
	CaseTypeContract: {},
	CaseTypeConsumer: {},
	CaseTypeService:  {},
	CaseTypeRental:   {},
	CaseTypeNeighbor: {},
	CaseTypeOther:    {},
}

// CaseTypeLabels человекочитаемые названия типов споров
var CaseTypeLabels = map[string]string{
	CaseTypeContract: "Litige contractuel",
	CaseTypeConsumer: "Droit de la consommation",
	CaseTypeService:  "Prestation de service",
	CaseTypeRental:   "Location/Bail",
	CaseTypeNeighbor: "Voisinage",
	CaseTypeOther:    "Autre type de conflit civil",
}

// ValidCaseStatuses список валидных статусов дела
var ValidCaseStatuses = map[string]struct{}{
	CaseStatusSubmitted:     {},
	CaseStatusAnalysisReady: {},
	CaseStatusFinalAnalysis: {},
	CaseStatusCompleted:     {},
}

// ValidProfileTypes список валидных типов профиля
var ValidProfileTypes = map[string]struct{}{
	ProfileTypeIndividual: {},
	ProfileTypeBusiness:   {},
}
