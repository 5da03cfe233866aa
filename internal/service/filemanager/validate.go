package filemanager

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"spisovka/internal/config"
	"spisovka/internal/domain"
	models "spisovka/internal/domain/models/filemanager"
)

// ValidateItems checks every structural invariant of an attachment list:
// field rules per item, unique ids, parents that exist and are folders,
// folders without file-only fields and an acyclic parent graph.
func ValidateItems(items []models.FileItem) error {
	var errs []error
	idx := newIndex(items)

	seen := make(map[string]bool, len(items))
	for i := range items {
		item := &items[i]
		if err := validateItem(item); err != nil {
			errs = append(errs, fmt.Errorf("item %q: %w", item.ID, err))
		}
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("item %q: duplicate id", item.ID))
		}
		seen[item.ID] = true

		if item.IsFolder() && item.HasFileFields() {
			errs = append(errs, fmt.Errorf("folder %q: carries file fields", item.ID))
		}
		if !item.IsRoot() {
			if _, ok := idx.folder(item.ParentID); !ok {
				errs = append(errs, fmt.Errorf("item %q: parent %q is not a folder in the list", item.ID, item.ParentID))
			}
		}
		if idx.cyclic(item.ID) {
			errs = append(errs, fmt.Errorf("item %q: parent chain forms a cycle", item.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
	}
	return nil
}

func validateItem(item *models.FileItem) error {
	return validation.ValidateStruct(item,
		validation.Field(&item.ID, validation.Required),
		validation.Field(&item.Type, validation.Required, validation.In(models.TypeFolder, models.TypeFile)),
		validation.Field(&item.Name, validation.Required, validation.RuneLength(1, config.MaxItemNameLength)),
		validation.Field(&item.Description, validation.RuneLength(0, config.MaxDescriptionLength)),
		validation.Field(&item.CreatedAt, validation.Required),
	)
}

// validateFolderName applies the folder naming rules to user input.
func validateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, config.MaxFolderNameLength),
	)
	if err != nil {
		return fmt.Errorf("%w: folder name %v", domain.ErrValidation, err)
	}
	return nil
}

func validateDescription(description string) error {
	err := validation.Validate(description, validation.RuneLength(0, config.MaxDescriptionLength))
	if err != nil {
		return fmt.Errorf("%w: description %v", domain.ErrValidation, err)
	}
	return nil
}
