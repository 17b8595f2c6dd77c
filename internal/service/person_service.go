package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
)

// PersonInput carries the fields for creating or updating a person.
type PersonInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// PersonService handles the address book used for task delegation.
type PersonService interface {
	Create(userID uint, in PersonInput) (*model.Person, error)
	Get(userID, personID uint) (*model.Person, error)
	ResolveByName(userID uint, name string) (*model.Person, error)
	List(userID uint) ([]model.Person, error)
	Update(userID, personID uint, in PersonInput) (*model.Person, error)
	Delete(userID, personID uint) error
}

type personService struct {
	personRepo repository.PersonRepository
}

// NewPersonService creates a new PersonService instance.
func NewPersonService(personRepo repository.PersonRepository) PersonService {
	return &personService{personRepo: personRepo}
}

func (s *personService) Create(userID uint, in PersonInput) (*model.Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validationf("person name is required")
	}
	person := &model.Person{
		UserID:      userID,
		Name:        name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.personRepo.Create(person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *personService) Get(userID, personID uint) (*model.Person, error) {
	person, err := s.personRepo.FindByID(userID, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("person %d not found", personID)
		}
		return nil, err
	}
	return person, nil
}

// ResolveByName finds a person by their (case-insensitive) name. Used to
// resolve @name delegation references from chat commands.
func (s *personService) ResolveByName(userID uint, name string) (*model.Person, error) {
	person, err := s.personRepo.FindByName(userID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("person '%s' not found", name)
		}
		return nil, err
	}
	return person, nil
}

func (s *personService) List(userID uint) ([]model.Person, error) {
	return s.personRepo.List(userID)
}

func (s *personService) Update(userID, personID uint, in PersonInput) (*model.Person, error) {
	person, err := s.Get(userID, personID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		person.Name = name
	}
	person.Email = in.Email
	person.PhoneNumber = in.PhoneNumber
	if err := s.personRepo.Update(person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *personService) Delete(userID, personID uint) error {
	err := s.personRepo.Delete(userID, personID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("person %d not found", personID)
	}
	return err
}
