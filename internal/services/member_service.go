package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// memberService handles member bookkeeping. Members are descriptive only:
// purchases hold a member's name as free text, so nothing here touches
// purchase records.
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB) MemberServicer {
	return &memberService{db: db}
}

// ListMembers returns all members of a dataset.
func (s *memberService) ListMembers(datasetID string) ([]models.Member, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	var members []models.Member
	if err := s.db.Where("dataset_id = ?", datasetID).Order("created_at").Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// CreateMember adds a member to a dataset.
func (s *memberService) CreateMember(datasetID, name string) (*models.Member, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	member := &models.Member{DatasetID: datasetID, Name: name}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// UpdateMember renames a member. Purchases referencing the old name keep
// it; attribution is deliberately decoupled from the member record.
func (s *memberService) UpdateMember(id, name string) (*models.Member, error) {
	member, err := s.getMember(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(member).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// DeleteMember removes a member without touching any purchase.
func (s *memberService) DeleteMember(id string) error {
	member, err := s.getMember(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *memberService) getMember(id string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}
