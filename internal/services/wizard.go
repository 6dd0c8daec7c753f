package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzflora/plantario-backend/internal/data/aggregates"
	"github.com/mzflora/plantario-backend/internal/data/repos/plants"
	"github.com/mzflora/plantario-backend/internal/plantdoc"
	"github.com/mzflora/plantario-backend/internal/platform/apierr"
	"github.com/mzflora/plantario-backend/internal/platform/dbctx"
	"github.com/mzflora/plantario-backend/internal/platform/draftstore"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const (
	wizardFirstStep = 1
	wizardLastStep  = 6
	draftTTL        = 24 * time.Hour
)

// WizardDraft is the wire view of an in-progress submission.
type WizardDraft struct {
	DraftID  string                `json:"draft_id"`
	Etapa    int                   `json:"etapa"`
	Dados    aggregates.PlantInput `json:"dados"`
	ExpiraEm time.Time             `json:"expira_em"`
	CriadoEm time.Time             `json:"criado_em"`
}

// StepValidation is the outcome of a dry-run validation of one step.
type StepValidation struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors"`
	Warnings []string          `json:"warnings"`
}

// WizardHealth reports whether the draft backend is reachable.
type WizardHealth struct {
	Status       string `json:"status"`
	ActiveDrafts int    `json:"rascunhos_ativos"`
}

type WizardService interface {
	SaveStep(ctx context.Context, draftID string, etapa int, partial aggregates.PlantInput) (*WizardDraft, error)
	GetDraft(ctx context.Context, draftID string) (*WizardDraft, error)
	DeleteDraft(ctx context.Context, draftID string) error
	ValidateStep(ctx context.Context, etapa int, partial aggregates.PlantInput) (*StepValidation, error)
	Finalize(ctx context.Context, draftID string, actor *Actor) (*plantdoc.Document, error)
	CreatePlant(ctx context.Context, in aggregates.PlantInput, actor *Actor) (*plantdoc.Document, error)
	Health(ctx context.Context) *WizardHealth
}

type wizardService struct {
	store     draftstore.Store
	plants    PlantService
	plantRepo plants.PlantRepo
	log       *logger.Logger
}

func NewWizardService(store draftstore.Store, plantSvc PlantService, plantRepo plants.PlantRepo, baseLog *logger.Logger) WizardService {
	return &wizardService{
		store:     store,
		plants:    plantSvc,
		plantRepo: plantRepo,
		log:       baseLog.With("service", "wizard"),
	}
}

// SaveStep validates one wizard step and folds it into the draft. A
// missing draft id starts a new draft on step 1.
func (s *wizardService) SaveStep(ctx context.Context, draftID string, etapa int, partial aggregates.PlantInput) (*WizardDraft, error) {
	if etapa < wizardFirstStep || etapa > wizardLastStep {
		return nil, apierr.Validation("invalid_step", "etapa inválida")
	}
	if err := validateStep(etapa, &partial); err != nil {
		return nil, err
	}

	// Opportunistic cleanup keeps the store from accumulating stale
	// drafts without a dedicated background job.
	if removed, err := s.store.SweepExpired(ctx); err == nil && removed > 0 {
		s.log.Debug("expired drafts swept", "removed", removed)
	}

	now := time.Now().UTC()
	var draft *draftstore.Draft
	if draftID == "" {
		if etapa != wizardFirstStep {
			return nil, apierr.Validation("missing_draft", "draft_id é obrigatório a partir da etapa 2")
		}
		draft = &draftstore.Draft{
			ID:        uuid.NewString(),
			CreatedAt: now,
		}
	} else {
		var err error
		draft, err = s.store.Get(ctx, draftID)
		if err != nil {
			if errors.Is(err, draftstore.ErrNotFound) {
				return nil, apierr.NotFound("draft_not_found", "rascunho não encontrado ou expirado")
			}
			return nil, err
		}
	}

	data, err := decodeDraftData(draft)
	if err != nil {
		return nil, err
	}
	mergeStep(etapa, &data, partial)

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	draft.Etapa = etapa
	draft.Payload = raw
	draft.UpdatedAt = now
	draft.ExpiresAt = now.Add(draftTTL)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, err
	}

	return s.toWire(draft, data), nil
}

func (s *wizardService) GetDraft(ctx context.Context, draftID string) (*WizardDraft, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, draftstore.ErrNotFound) {
			return nil, apierr.NotFound("draft_not_found", "rascunho não encontrado ou expirado")
		}
		return nil, err
	}
	data, err := decodeDraftData(draft)
	if err != nil {
		return nil, err
	}
	return s.toWire(draft, data), nil
}

func (s *wizardService) DeleteDraft(ctx context.Context, draftID string) error {
	return s.store.Delete(ctx, draftID)
}

// ValidateStep dry-runs the checks of one step without touching any
// draft. Step 1 additionally flags duplicate scientific names so the
// form can refuse before the final submit.
func (s *wizardService) ValidateStep(ctx context.Context, etapa int, partial aggregates.PlantInput) (*StepValidation, error) {
	if etapa < wizardFirstStep || etapa > wizardLastStep {
		return nil, apierr.Validation("invalid_step", "etapa inválida")
	}
	out := &StepValidation{
		Errors:   collectStepErrors(etapa, &partial),
		Warnings: []string{},
	}
	if etapa == wizardFirstStep && out.Errors["nome_cientifico"] == "" {
		dbc := dbctx.Context{Ctx: ctx}
		if _, err := s.plantRepo.GetByScientificName(dbc, partial.NomeCientifico); err == nil {
			out.Errors["nome_cientifico"] = "já existe uma planta com esse nome científico"
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, aggregates.MapError("wizard.validate_step", err)
		}
		if fam := strings.TrimSpace(partial.Familia); fam != "" {
			known, err := s.plantRepo.ListFamilies(dbc, fam)
			if err != nil {
				s.log.Warn("family lookup failed during validation", "error", err)
			} else if !familyKnown(known, fam) {
				out.Warnings = append(out.Warnings, "família nova: será criada junto com a planta")
			}
		}
	}
	out.Valid = len(out.Errors) == 0
	return out, nil
}

func familyKnown(families []plants.FamilyCount, familia string) bool {
	for _, f := range families {
		if strings.EqualFold(f.Familia, familia) {
			return true
		}
	}
	return false
}

// Health pings the draft backend. A store failure degrades the status
// instead of erroring, so the endpoint keeps answering during outages.
func (s *wizardService) Health(ctx context.Context) *WizardHealth {
	n, err := s.store.Count(ctx)
	if err != nil {
		s.log.Warn("draft store unreachable", "error", err)
		return &WizardHealth{Status: "degraded"}
	}
	return &WizardHealth{Status: "ok", ActiveDrafts: n}
}

// Finalize turns the accumulated draft into a real plant and discards
// the draft on success.
func (s *wizardService) Finalize(ctx context.Context, draftID string, actor *Actor) (*plantdoc.Document, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		if errors.Is(err, draftstore.ErrNotFound) {
			return nil, apierr.NotFound("draft_not_found", "rascunho não encontrado ou expirado")
		}
		return nil, err
	}
	data, err := decodeDraftData(draft)
	if err != nil {
		return nil, err
	}
	if err := validateStep(wizardFirstStep, &data); err != nil {
		return nil, err
	}

	doc, err := s.plants.Create(ctx, data, actor)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, draftID); err != nil {
		s.log.Warn("draft cleanup failed", "draft_id", draftID, "error", err)
	}
	s.log.Info("wizard finalized", "draft_id", draftID, "id_planta", doc.IDPlanta)
	return doc, nil
}

// CreatePlant is the single-request submission path: the whole payload
// at once, no draft involved.
func (s *wizardService) CreatePlant(ctx context.Context, in aggregates.PlantInput, actor *Actor) (*plantdoc.Document, error) {
	return s.plants.Create(ctx, in, actor)
}

func (s *wizardService) toWire(draft *draftstore.Draft, data aggregates.PlantInput) *WizardDraft {
	return &WizardDraft{
		DraftID:  draft.ID,
		Etapa:    draft.Etapa,
		Dados:    data,
		ExpiraEm: draft.ExpiresAt,
		CriadoEm: draft.CreatedAt,
	}
}

func decodeDraftData(draft *draftstore.Draft) (aggregates.PlantInput, error) {
	var data aggregates.PlantInput
	if len(draft.Payload) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(draft.Payload, &data); err != nil {
		return data, apierr.Validation("corrupt_draft", "rascunho corrompido")
	}
	return data, nil
}

// mergeStep overwrites only the fields the given step owns, so an older
// step can be revisited without clobbering later ones.
func mergeStep(etapa int, data *aggregates.PlantInput, partial aggregates.PlantInput) {
	switch etapa {
	case 1:
		data.NomeCientifico = partial.NomeCientifico
		data.Familia = partial.Familia
		data.InfosAdicionais = partial.InfosAdicionais
		data.CompQuimica = partial.CompQuimica
		data.PropFarmacologica = partial.PropFarmacologica
	case 2:
		data.NomesComuns = partial.NomesComuns
	case 3:
		data.Provincias = partial.Provincias
	case 4:
		data.Partes = partial.Partes
	case 5:
		data.Referencias = partial.Referencias
	case 6:
		// Review step carries no data of its own.
	}
}

// collectStepErrors runs the same checks as validateStep but keeps
// going, keying each failure by the offending field.
func collectStepErrors(etapa int, in *aggregates.PlantInput) map[string]string {
	errs := map[string]string{}
	switch etapa {
	case 1:
		if strings.TrimSpace(in.NomeCientifico) == "" {
			errs["nome_cientifico"] = "nome_cientifico é obrigatório"
		}
		if strings.TrimSpace(in.Familia) == "" {
			errs["familia"] = "familia é obrigatória"
		}
	case 3:
		for _, pv := range in.Provincias {
			if pv.IDProvincia == 0 {
				errs["provincias"] = "id_provincia é obrigatório"
			}
			if strings.TrimSpace(pv.Local) == "" {
				errs["local"] = "local de colheita é obrigatório"
			}
		}
	case 4:
		for _, pp := range in.Partes {
			if strings.TrimSpace(pp.NomeParte) == "" {
				errs["partes_usadas"] = "nome_parte é obrigatório"
			}
		}
	case 5:
		for _, rr := range in.Referencias {
			if strings.TrimSpace(rr.Titulo) == "" {
				errs["referencias"] = "titulo da referência é obrigatório"
			}
			if rr.AnoPublicacao != nil && (*rr.AnoPublicacao < 1500 || *rr.AnoPublicacao > time.Now().Year()+1) {
				errs["ano_publicacao"] = "ano de publicação inválido"
			}
		}
	}
	return errs
}

func validateStep(etapa int, in *aggregates.PlantInput) error {
	switch etapa {
	case 1:
		if strings.TrimSpace(in.NomeCientifico) == "" {
			return apierr.Validation("missing_nome_cientifico", "nome_cientifico é obrigatório")
		}
		if strings.TrimSpace(in.Familia) == "" {
			return apierr.Validation("missing_familia", "familia é obrigatória")
		}
	case 3:
		for _, pv := range in.Provincias {
			if pv.IDProvincia == 0 {
				return apierr.Validation("missing_provincia", "id_provincia é obrigatório")
			}
			if strings.TrimSpace(pv.Local) == "" {
				return apierr.Validation("missing_local", "local de colheita é obrigatório")
			}
		}
	case 4:
		for _, pp := range in.Partes {
			if strings.TrimSpace(pp.NomeParte) == "" {
				return apierr.Validation("missing_parte", "nome_parte é obrigatório")
			}
		}
	case 5:
		for _, rr := range in.Referencias {
			if strings.TrimSpace(rr.Titulo) == "" {
				return apierr.Validation("missing_titulo", "titulo da referência é obrigatório")
			}
			if rr.AnoPublicacao != nil && (*rr.AnoPublicacao < 1500 || *rr.AnoPublicacao > time.Now().Year()+1) {
				return apierr.Validation("invalid_ano", "ano de publicação inválido")
			}
		}
	}
	return nil
}
