package usecase

import (
	"fmt"

	"github.com/panelhub/panel-link-service/internal/domain"
	linkdto "github.com/panelhub/panel-link-service/internal/usecase/dto/link"
)

// CorrectVendorAssignment moves a link to another vendor of the same
// project. Allowed once per link and only before a completion attempt.
func (uc *DefaultLinkUsecase) CorrectVendorAssignment(input *linkdto.CorrectVendorInput) (*domain.SurveyLink, error) {
	link, err := uc.LinkRepo.GetLinkByID(input.LinkID)
	if err != nil {
		return nil, err
	}
	if link.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: vendor correction on %s link", domain.ErrInvalidLinkState, link.Status)
	}
	if link.VendorCorrected {
		return nil, domain.ErrVendorAlreadyCorrected
	}

	vendor, err := uc.ProjectRepo.GetVendorByID(input.NewVendorID)
	if err != nil {
		return nil, err
	}
	if vendor.ProjectID != link.ProjectID {
		return nil, domain.ErrVendorProjectMismatch
	}

	if err := uc.LinkRepo.UpdateVendor(link.ID, vendor.ID); err != nil {
		return nil, err
	}
	link.VendorID = vendor.ID
	link.VendorCorrected = true

	uc.Logger.Info("link vendor corrected",
		"link_id", link.ID,
		"new_vendor_id", vendor.ID,
		"actor_id", input.ActorID,
	)
	return link, nil
}
