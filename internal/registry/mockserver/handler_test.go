package mockserver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"demographics/internal/registry/fixtures"
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/models"
	"demographics/internal/registry/service"
	"demographics/internal/registry/transport/soap"
)

// HandlerSuite drives the real SOAP transport and registry client against
// the mock registry, so the whole exchange is exercised end to end.
type HandlerSuite struct {
	suite.Suite
	handler *Handler
	server  *httptest.Server
	client  *service.Client
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = New(logger)

	r := chi.NewRouter()
	s.handler.Register(r)
	s.server = httptest.NewServer(r)

	transport, err := soap.New(s.server.URL + Path)
	require.NoError(s.T(), err)
	s.client, err = service.New(transport, service.WithLogger(logger))
	require.NoError(s.T(), err)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) TestJohnDoeByPhnAndHdid() {
	byPhn := s.client.LookupByPhn(context.Background(), fixtures.JohnDoePhn, false)
	byHdid := s.client.LookupByHdid(context.Background(), fixtures.JohnDoeHdid, false)

	s.Require().True(byPhn.IsSuccess())
	s.Equal("John", byPhn.Patient.FirstName)
	s.Equal("Doe", byPhn.Patient.LastName)
	s.Equal(fixtures.JohnDoePhn, byPhn.Patient.PHN)
	s.Equal(fixtures.JohnDoeHdid, byPhn.Patient.HDID)
	s.Equal(models.GenderMale, byPhn.Patient.Gender)
	s.Require().NotNil(byPhn.Patient.PhysicalAddress)
	s.Equal([]string{"1025 Sutlej Street", "Suite 310"}, byPhn.Patient.PhysicalAddress.StreetLines)
	s.Equal(byPhn, byHdid)
}

func (s *HandlerSuite) TestCannedOutcomes() {
	ctx := context.Background()

	s.Equal(models.NotFound(), s.client.LookupByPhn(ctx, "0000000000", false))
	s.Equal(models.InvalidIdentifierFormat(), s.client.LookupByPhn(ctx, fixtures.InvalidPhn, false))
	s.Equal(models.DeceasedSubject(), s.client.LookupByHdid(ctx, fixtures.DeceasedHdid, false))

	advisory := s.client.LookupByPhn(ctx, fixtures.AdvisoryPhn, false)
	s.Require().True(advisory.IsSuccess())
	s.Equal(fixtures.AdvisoryResponseCode, advisory.Patient.ResponseCode)
}

func (s *HandlerSuite) TestFaultBecomesTransportFailure() {
	outcome := s.client.LookupByPhn(context.Background(), FaultIdentifier, false)

	s.Equal(models.TransportFailure("protocol_fault: HCIM is unavailable"), outcome)
}

func (s *HandlerSuite) TestSetFixture() {
	person := fixtures.NewPerson().
		WithName([]hl7.NameUse{hl7.NameUseLegal}, []string{"Ada"}, []string{"Lovelace"}).
		WithPhn("9999999999").
		Build()
	s.handler.SetFixture("9999999999", *fixtures.Found(person))

	s.Equal(models.IdentityIncomplete(models.ReasonMissingIdentifier), s.client.LookupByPhn(context.Background(), "9999999999", false))

	lenient := s.client.LookupByPhn(context.Background(), "9999999999", true)
	s.Require().True(lenient.IsSuccess())
	s.Equal("Ada", lenient.Patient.FirstName)
}

func (s *HandlerSuite) TestMalformedRequest() {
	resp, err := http.Post(s.server.URL+Path, "text/xml", strings.NewReader("<nope/>"))
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.True(bytes.Contains(body, []byte("malformed GetDemographics request")))
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
}
