package mock

import (
	"context"

	"github.com/fwojciec/isocert"
)

var _ isocert.CertificationService = (*CertificationService)(nil)

// CertificationService is a mock implementation of isocert.CertificationService.
type CertificationService struct {
	FindCertificationsFn  func(ctx context.Context, companyName string) ([]*isocert.Certification, error)
	CreateCertificationFn func(ctx context.Context, cert *isocert.Certification) error
	CountCertificationsFn func(ctx context.Context) (int, error)
}

func (s *CertificationService) FindCertifications(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	return s.FindCertificationsFn(ctx, companyName)
}

func (s *CertificationService) CreateCertification(ctx context.Context, cert *isocert.Certification) error {
	return s.CreateCertificationFn(ctx, cert)
}

func (s *CertificationService) CountCertifications(ctx context.Context) (int, error) {
	return s.CountCertificationsFn(ctx)
}

var _ isocert.CertificationFinder = (*CertificationFinder)(nil)

// CertificationFinder is a mock implementation of isocert.CertificationFinder.
type CertificationFinder struct {
	FindCertificationsFn func(ctx context.Context, companyName string) ([]*isocert.Certification, error)
}

func (f *CertificationFinder) FindCertifications(ctx context.Context, companyName string) ([]*isocert.Certification, error) {
	return f.FindCertificationsFn(ctx, companyName)
}
