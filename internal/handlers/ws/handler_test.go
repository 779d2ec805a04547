package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/handlers/ws"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	gamemock "github.com/KirkDiggler/treasure-realm/internal/orchestrators/game/mock"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/logger"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
)

const waitTimeout = 2 * time.Second

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *gamemock.MockService
	hub         *ws.Hub
	server      *httptest.Server
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = gamemock.NewMockService(s.ctrl)
	s.hub = ws.NewHub()

	validator, err := protocol.NewValidator()
	s.Require().NoError(err)

	handler, err := ws.NewHandler(&ws.HandlerConfig{
		Service:   s.mockService,
		Validator: validator,
		Hub:       s.hub,
		Logger:    logger.Discard(),
	})
	s.Require().NoError(err)

	mux := http.NewServeMux()
	mux.Handle("/ws", handler)
	s.server = httptest.NewServer(mux)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) url(query string) string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws?" + query
}

func (s *HandlerTestSuite) response(playerID string, seq int64) *protocol.Response {
	return &protocol.Response{
		Seq:     seq,
		Player:  entities.Player{ID: playerID, HP: 100, MaxHP: 100},
		Visible: entities.NewVisibilitySnapshot(),
	}
}

func (s *HandlerTestSuite) expectJoin(playerID string) {
	s.mockService.EXPECT().
		Join(gomock.Any(), &game.JoinInput{PlayerID: playerID}).
		Return(&game.JoinOutput{Response: s.response(playerID, 0)}, nil)
}

func (s *HandlerTestSuite) expectLeave(playerID string) <-chan struct{} {
	left := make(chan struct{})
	s.mockService.EXPECT().
		Leave(gomock.Any(), &game.LeaveInput{PlayerID: playerID}).
		DoAndReturn(func(ctx context.Context, input *game.LeaveInput) (*game.LeaveOutput, error) {
			close(left)
			return &game.LeaveOutput{}, nil
		})
	return left
}

func (s *HandlerTestSuite) connect(query string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(s.url(query), nil)
	s.Require().NoError(err)
	return conn
}

func (s *HandlerTestSuite) read(conn *websocket.Conn) *protocol.Response {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	var resp protocol.Response
	s.Require().NoError(conn.ReadJSON(&resp))
	return &resp
}

func (s *HandlerTestSuite) disconnect(conn *websocket.Conn, left <-chan struct{}) {
	s.Require().NoError(conn.Close())
	select {
	case <-left:
	case <-time.After(waitTimeout):
		s.Fail("player was not removed after disconnect")
	}
}

func (s *HandlerTestSuite) TestJoinSendsFirstResponse() {
	s.expectJoin("alice")
	left := s.expectLeave("alice")

	conn := s.connect("player_id=alice")
	first := s.read(conn)
	s.Assert().Equal("alice", first.Player.ID)
	s.Assert().Equal(int64(0), first.Seq)
	s.Assert().True(s.hub.Connected("alice"))

	s.disconnect(conn, left)
	s.Assert().Eventually(func() bool { return !s.hub.Connected("alice") }, waitTimeout, 10*time.Millisecond)
}

func (s *HandlerTestSuite) TestJoinWithPositionAndName() {
	s.mockService.EXPECT().
		Join(gomock.Any(), &game.JoinInput{
			PlayerID: "bob",
			Name:     "Bob",
			Position: &geometry.Point{X: 120, Y: 80.5},
		}).
		Return(&game.JoinOutput{Response: s.response("bob", 0)}, nil)
	left := s.expectLeave("bob")

	conn := s.connect("player_id=bob&name=Bob&x=120&y=80.5")
	s.read(conn)
	s.disconnect(conn, left)
}

func (s *HandlerTestSuite) TestJoinGeneratesPlayerID() {
	ids := make(chan string, 1)
	s.mockService.EXPECT().
		Join(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *game.JoinInput) (*game.JoinOutput, error) {
			ids <- input.PlayerID
			return &game.JoinOutput{Response: s.response(input.PlayerID, 0)}, nil
		})
	s.mockService.EXPECT().Leave(gomock.Any(), gomock.Any()).Return(&game.LeaveOutput{}, nil)

	conn := s.connect("")
	first := s.read(conn)
	generated := <-ids

	_, err := uuid.Parse(generated)
	s.Assert().NoError(err)
	s.Assert().Equal(generated, first.Player.ID)

	s.Require().NoError(conn.Close())
	s.Assert().Eventually(func() bool { return !s.hub.Connected(generated) }, waitTimeout, 10*time.Millisecond)
}

func (s *HandlerTestSuite) TestJoinRejected() {
	testCases := []struct {
		name   string
		query  string
		setup  func()
		status int
	}{
		{
			name:  "duplicate player",
			query: "player_id=alice",
			setup: func() {
				s.mockService.EXPECT().
					Join(gomock.Any(), gomock.Any()).
					Return(nil, errors.AlreadyExistsf("player %s already joined", "alice"))
			},
			status: http.StatusConflict,
		},
		{
			name:   "bad coordinates",
			query:  "player_id=alice&x=north&y=1",
			setup:  func() {},
			status: http.StatusBadRequest,
		},
		{
			name:   "only one coordinate",
			query:  "player_id=alice&x=1",
			setup:  func() {},
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.setup()
			_, resp, err := websocket.DefaultDialer.Dial(s.url(tc.query), nil)
			s.Require().Error(err)
			s.Require().NotNil(resp)
			s.Assert().Equal(tc.status, resp.StatusCode)
		})
	}
}

func (s *HandlerTestSuite) TestActionFrame() {
	s.expectJoin("alice")
	left := s.expectLeave("alice")
	s.mockService.EXPECT().
		HandleAction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *game.HandleActionInput) (*game.HandleActionOutput, error) {
			s.Assert().Equal("alice", input.PlayerID)
			s.Assert().Equal(protocol.ActionMove, input.Action.Action)
			s.Assert().Equal(int64(1), input.Action.Seq)
			move, err := input.Action.Move()
			s.Assert().NoError(err)
			s.Assert().Equal(geometry.Point{X: 10, Y: 20}, move.Point())

			resp := s.response("alice", 1)
			resp.Result = &protocol.ActionResult{Action: protocol.ActionMove, Success: true}
			return &game.HandleActionOutput{Response: resp}, nil
		})

	conn := s.connect("player_id=alice")
	s.read(conn)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"action":"move","payload":{"x":10,"y":20},"seq":1}`)))

	resp := s.read(conn)
	s.Assert().Equal(int64(1), resp.Seq)
	s.Require().NotNil(resp.Result)
	s.Assert().True(resp.Result.Success)

	s.disconnect(conn, left)
}

func (s *HandlerTestSuite) TestInvalidFrame() {
	s.expectJoin("alice")
	left := s.expectLeave("alice")
	s.mockService.EXPECT().
		GetSnapshot(gomock.Any(), &game.GetSnapshotInput{PlayerID: "alice"}).
		Return(&game.GetSnapshotOutput{Response: s.response("alice", 0)}, nil)

	conn := s.connect("player_id=alice")
	s.read(conn)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"fly","payload":{},"seq":1}`)))

	resp := s.read(conn)
	s.Require().NotNil(resp.Result)
	s.Assert().False(resp.Result.Success)
	s.Assert().Equal(string(errors.CodeInvalidArgument), resp.Result.Code)

	s.disconnect(conn, left)
}

func (s *HandlerTestSuite) TestNotifyPushesSnapshot() {
	s.expectJoin("bob")
	left := s.expectLeave("bob")
	s.mockService.EXPECT().
		GetSnapshot(gomock.Any(), &game.GetSnapshotInput{PlayerID: "bob"}).
		DoAndReturn(func(ctx context.Context, input *game.GetSnapshotInput) (*game.GetSnapshotOutput, error) {
			resp := s.response("bob", 3)
			resp.Player.HP = 80
			resp.Events = []protocol.GameEvent{{Type: protocol.EventDamageTaken, FromID: "alice", Amount: 20}}
			return &game.GetSnapshotOutput{Response: resp}, nil
		})

	conn := s.connect("player_id=bob")
	s.read(conn)

	s.hub.Notify("bob")

	pushed := s.read(conn)
	s.Assert().Equal(80, pushed.Player.HP)
	s.Require().Len(pushed.Events, 1)
	s.Assert().Equal(protocol.EventDamageTaken, pushed.Events[0].Type)

	s.disconnect(conn, left)
}

func (s *HandlerTestSuite) TestNotifyUnknownPlayer() {
	s.Assert().NotPanics(func() { s.hub.Notify("nobody") })
	s.Assert().False(s.hub.Connected("nobody"))
}

func (s *HandlerTestSuite) TestConfigValidation() {
	_, err := ws.NewHandler(&ws.HandlerConfig{Hub: s.hub})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = ws.NewHandler(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
