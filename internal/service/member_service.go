package service

import (
	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
)

// MaxMembersPerOrg caps an organization's contact list.
const MaxMembersPerOrg = 1000

type MemberService struct {
	MemberRepo repository.MemberRepositoryInterface
	LogRepo    repository.BroadcastLogRepositoryInterface
}

func (s *MemberService) List(orgID, offset, limit int) ([]model.Member, error) {
	if limit < 1 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.MemberRepo.ListByOrg(orgID, offset, limit)
}

func (s *MemberService) Create(orgID int, name, phoneNumber string, status model.MemberStatus) (*model.Member, error) {
	count, err := s.MemberRepo.CountByOrg(orgID)
	if err != nil {
		return nil, err
	}
	if count >= MaxMembersPerOrg {
		return nil, appErrors.ErrMemberLimitReached
	}

	if status == "" {
		status = model.MemberActive
	}
	m := &model.Member{
		Name:           name,
		PhoneNumber:    phoneNumber,
		Status:         status,
		OrganizationID: orgID,
	}
	if err := s.MemberRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemberService) Update(orgID, id int, name, phoneNumber *string, status *model.MemberStatus) (*model.Member, error) {
	m, err := s.MemberRepo.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, appErrors.NewMemberNotFound(id)
	}

	if name != nil && *name != "" {
		m.Name = *name
	}
	if phoneNumber != nil && *phoneNumber != "" {
		m.PhoneNumber = *phoneNumber
	}
	if status != nil && (*status == model.MemberActive || *status == model.MemberInactive) {
		m.Status = *status
	}

	if err := s.MemberRepo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the member and its ledger rows. Logs go first so the member
// row never dangles references.
func (s *MemberService) Delete(orgID, id int) error {
	m, err := s.MemberRepo.GetByID(orgID, id)
	if err != nil {
		return err
	}
	if m == nil {
		return appErrors.NewMemberNotFound(id)
	}

	if err := s.LogRepo.DeleteByMember(id); err != nil {
		return err
	}
	return s.MemberRepo.Delete(orgID, id)
}
