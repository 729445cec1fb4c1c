package resolver

import "payoutkyc/internal/compliance/models"

type planBuilder struct {
	specs map[models.FieldName]*models.FieldSpec
}

func newPlanBuilder() *planBuilder {
	specs := make(map[models.FieldName]*models.FieldSpec, len(models.FormFields))
	for _, name := range models.FormFields {
		def := fieldDefs[name]
		specs[name] = &models.FieldSpec{
			Name:        name,
			Label:       def.label,
			LabelID:     def.labelID,
			Constraints: models.Constraints{Placeholder: def.placeholder},
		}
	}
	return &planBuilder{specs: specs}
}

// show marks name visible and returns its spec for further adjustment.
func (b *planBuilder) show(name models.FieldName, required bool) *models.FieldSpec {
	spec := b.specs[name]
	spec.Visible = true
	spec.Required = required
	return spec
}

func (b *planBuilder) build(invalid models.FieldSet, warnings []models.Warning) models.FieldPlan {
	fields := make([]models.FieldSpec, 0, len(models.FormFields))
	for _, name := range models.FormFields {
		spec := *b.specs[name]
		spec.Invalid = invalid.Has(name)
		fields = append(fields, spec)
	}
	return models.FieldPlan{Fields: fields, Warnings: warnings}
}
