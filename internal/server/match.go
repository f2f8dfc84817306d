// Package server exposes matches over gRPC and streams their events to
// websocket spectators.
package server

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/deck"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/Casiics/MagiCore/internal/simulation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// MatchServiceName is the full gRPC service name.
const MatchServiceName = "magicore.v1.MatchService"

// DefaultDeckName names deck.Default in the deck registry.
const DefaultDeckName = "default"

// MaxMatchTurns caps the max_turns a client may request.
const MaxMatchTurns = 1000

// maxSeed is the largest magnitude a JSON number holds exactly.
const maxSeed = 1 << 53

// Match states.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

// MatchServiceServer is the server API for magicore.v1.MatchService.
//
// RunMatch request fields: match_id, deck_0, deck_1, seed, max_turns, async.
// GetMatch request fields: match_id.
type MatchServiceServer interface {
	RunMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// MatchServiceDesc is the grpc.ServiceDesc for magicore.v1.MatchService.
var MatchServiceDesc = grpc.ServiceDesc{
	ServiceName: MatchServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunMatch", Handler: runMatchHandler},
		{MethodName: "GetMatch", Handler: getMatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "magicore/v1/match.proto",
}

// RegisterMatchServiceServer registers srv on s.
func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchServiceDesc, srv)
}

func runMatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).RunMatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + MatchServiceName + "/RunMatch"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MatchServiceServer).RunMatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getMatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).GetMatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + MatchServiceName + "/GetMatch"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MatchServiceServer).GetMatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// MatchServiceClient is the client API for magicore.v1.MatchService.
type MatchServiceClient interface {
	RunMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMatchServiceClient creates a client on cc.
func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc: cc}
}

func (c *matchServiceClient) RunMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+MatchServiceName+"/RunMatch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) GetMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+MatchServiceName+"/GetMatch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterHealth registers the grpc.health.v1 service on s and marks the
// server and the match service as serving.
func RegisterHealth(s grpc.ServiceRegistrar) *health.Server {
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(MatchServiceName, healthpb.HealthCheckResponse_SERVING)
	return healthServer
}

type match struct {
	id       string
	decks    [2]string
	status   string
	result   *simulation.Result
	err      error
	started  time.Time
	finished time.Time
	done     chan struct{}
}

// MatchServer runs AI-versus-AI matches. Each match runs in its own goroutine
// with its own engine and keeps running when the caller goes away.
type MatchServer struct {
	logger   *zap.Logger
	provider carddb.Provider
	decks    map[string]*deck.List
	base     simulation.Options
	hub      *Hub

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	matches map[string]*match
}

// NewMatchServer creates a match server. decks maps deck names to lists; the
// default deck is always available. hub may be nil.
func NewMatchServer(logger *zap.Logger, provider carddb.Provider, decks map[string]*deck.List, base simulation.Options, hub *Hub) *MatchServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := make(map[string]*deck.List, len(decks)+1)
	registry[DefaultDeckName] = deck.Default()
	for name, list := range decks {
		registry[name] = list
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MatchServer{
		logger:   logger,
		provider: provider,
		decks:    registry,
		base:     base,
		hub:      hub,
		ctx:      ctx,
		cancel:   cancel,
		matches:  make(map[string]*match),
	}
}

// DeckNames returns the registered deck names in order.
func (s *MatchServer) DeckNames() []string {
	names := make([]string, 0, len(s.decks))
	for name := range s.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunMatch starts a match. Unless async is set it waits for the result.
func (s *MatchServer) RunMatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	matchID := stringField(req, "match_id")
	if matchID == "" {
		matchID = uuid.NewString()
	}

	var names [2]string
	var decks [2][]*carddb.Card
	for i, key := range []string{"deck_0", "deck_1"} {
		names[i] = stringField(req, key)
		if names[i] == "" {
			names[i] = DefaultDeckName
		}
		cards, err := s.resolveDeck(names[i])
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
		}
		decks[i] = cards
	}

	opts := s.base
	opts.GameID = matchID
	seed, ok, err := integerField(req, "seed", -maxSeed, maxSeed)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if ok {
		opts.Game.Seed = seed
	}
	turns, ok, err := integerField(req, "max_turns", 1, MaxMatchTurns)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if ok {
		opts.MaxTurns = int(turns)
	}

	m := &match{
		id:      matchID,
		decks:   names,
		status:  StatusRunning,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	s.mu.Lock()
	if _, exists := s.matches[matchID]; exists {
		s.mu.Unlock()
		return nil, status.Errorf(codes.AlreadyExists, "match %s already exists", matchID)
	}
	s.matches[matchID] = m
	s.mu.Unlock()

	s.logger.Info("match started",
		zap.String("match_id", matchID),
		zap.Strings("decks", names[:]),
		zap.Int64("seed", opts.Game.Seed),
		zap.Int("max_turns", opts.MaxTurns),
	)

	s.wg.Add(1)
	go s.play(trace.ContextWithSpan(s.ctx, trace.SpanFromContext(ctx)), m, opts, decks)

	if boolField(req, "async") {
		return s.matchStruct(m)
	}
	select {
	case <-m.done:
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}
	if err := s.matchErr(m); err != nil {
		return nil, status.Errorf(codes.Internal, "match %s: %v", matchID, err)
	}
	return s.matchStruct(m)
}

// GetMatch returns a match by id.
func (s *MatchServer) GetMatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	matchID := stringField(req, "match_id")
	if matchID == "" {
		return nil, status.Error(codes.InvalidArgument, "match_id is required")
	}
	s.mu.RLock()
	m, ok := s.matches[matchID]
	s.mu.RUnlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "match %s not found", matchID)
	}
	return s.matchStruct(m)
}

// Shutdown cancels running matches and waits for them to stop.
func (s *MatchServer) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for matches: %w", ctx.Err())
	}
}

func (s *MatchServer) resolveDeck(name string) ([]*carddb.Card, error) {
	list, ok := s.decks[name]
	if !ok {
		return nil, fmt.Errorf("unknown deck %q", name)
	}
	return list.Resolve(s.provider)
}

func (s *MatchServer) play(ctx context.Context, m *match, opts simulation.Options, decks [2][]*carddb.Card) {
	defer s.wg.Done()

	var sink rules.Sink
	if s.hub != nil {
		sink = s.hub.Sink(m.id)
	}
	res, err := simulation.NewRunner(s.logger, opts, sink).Run(ctx, decks)

	s.mu.Lock()
	m.result, m.err = res, err
	m.finished = time.Now()
	m.status = StatusFinished
	if err != nil {
		m.status = StatusFailed
	}
	s.mu.Unlock()
	close(m.done)

	if err != nil {
		s.logger.Error("match failed", zap.String("match_id", m.id), zap.Error(err))
	} else {
		s.logger.Info("match finished",
			zap.String("match_id", m.id),
			zap.Int("winner", res.Winner),
			zap.Int("turns", res.Turns),
			zap.String("checksum", res.Checksum),
		)
	}
	if s.hub != nil {
		if view, err := s.matchStruct(m); err == nil {
			s.hub.Broadcast(m.id, MessageMatchFinished, view.AsMap())
		}
	}
}

func (s *MatchServer) matchErr(m *match) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return m.err
}

func (s *MatchServer) matchStruct(m *match) (*structpb.Struct, error) {
	s.mu.RLock()
	fields := map[string]any{
		"match_id":   m.id,
		"status":     m.status,
		"deck_0":     m.decks[0],
		"deck_1":     m.decks[1],
		"started_at": m.started.UTC().Format(time.RFC3339Nano),
	}
	if !m.finished.IsZero() {
		fields["finished_at"] = m.finished.UTC().Format(time.RFC3339Nano)
	}
	if m.err != nil {
		fields["error"] = m.err.Error()
	}
	if res := m.result; res != nil {
		fields["seed"] = res.Seed
		fields["winner"] = res.Winner
		fields["over"] = res.Over
		fields["reason"] = res.Reason
		fields["turns"] = res.Turns
		fields["life"] = []any{res.Life[0], res.Life[1]}
		fields["checksum"] = res.Checksum
		fields["frames"] = res.Frames
	}
	s.mu.RUnlock()

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode match: %v", err)
	}
	return out, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// integerField reads an optional whole number in [lo, hi].
func integerField(s *structpb.Struct, key string, lo, hi int64) (int64, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) {
		return 0, false, fmt.Errorf("%s must be a whole number, got %v", key, f)
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, false, fmt.Errorf("%s must be between %d and %d, got %v", key, lo, hi, f)
	}
	return int64(f), true, nil
}

func boolField(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

var _ MatchServiceServer = (*MatchServer)(nil)
