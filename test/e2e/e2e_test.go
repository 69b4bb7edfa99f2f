// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchlab-workers/internal/common/config"
	"matchlab-workers/internal/common/database"
	"matchlab-workers/internal/common/logger"

	// Import all worker packages
	explorecandidates "matchlab-workers/internal/workers/matching/explore-candidates"
	getmatchdetail "matchlab-workers/internal/workers/matching/get-match-detail"
	getrecommendations "matchlab-workers/internal/workers/matching/get-recommendations"
	sendmatchnotification "matchlab-workers/internal/workers/notification/send-match-notification"
	syncmbtiprofile "matchlab-workers/internal/workers/profile/sync-mbti-profile"
	updatetrustscore "matchlab-workers/internal/workers/profile/update-trust-score"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	var err error

	// Initialize Zeebe client with real connection
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect to Zeebe: %v", err))
	}

	// Initialize logger
	zapLog, _ = zap.NewProduction()

	// Run tests
	code := m.Run()

	// Cleanup
	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	_, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Load config
	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Log("🚀 Starting FULL E2E Test with real services...")

	// 1. Check all external services are available
	assertAllServicesConnectivity(t, cfg)

	// 2. Create DB tables if needed and insert test data
	createDatabaseTables(t, cfg)

	// 3. Seed the Elasticsearch explore index
	seedExploreIndex(t, cfg)

	// 4. Deploy all BPMN files
	deployAllBPMN(t, cfg, zapLog)

	// 5. Test all 6 workers with real execution
	testAllWorkers(t, cfg, zapLog)

	t.Log("✅ ALL TESTS PASSED, full E2E workflow successful!")
}

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) {
	t.Log("🔍 Checking service connectivity...")

	// 🔧 FORCE LOCALHOST FOR E2E TESTS
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}

	// --- PostgreSQL ---
	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	assert.NoError(t, db.Ping(context.Background()), "❌ PostgreSQL ping failed")
	db.Close()
	t.Log("✅ PostgreSQL connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	assert.NoError(t, rdb.Ping(context.Background()), "❌ Redis ping failed")
	t.Log("✅ Redis connected")

	// --- Elasticsearch ---
	esURL := cfg.Database.Elasticsearch.GetURL()
	t.Logf("🔗 Elasticsearch URL: %s", esURL)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	require.NoError(t, err, "❌ Elasticsearch client creation failed")

	res, err := es.Info()
	require.NoError(t, err, "❌ Elasticsearch info request failed")
	assert.False(t, res.IsError(), "❌ Elasticsearch returned error")
	res.Body.Close()
	t.Log("✅ Elasticsearch connected")

	// --- Zeebe ---
	_, err = zeebeClient.NewTopologyCommand().Send(context.Background())
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")
}

// ==========================
// 2. Database Tables Setup + Test Data
// ==========================
func createDatabaseTables(t *testing.T, cfg *config.Config) {
	t.Log("🔧 Creating database tables and inserting test data...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	// Create test tables if they don't exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			nickname VARCHAR(100) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			last_active_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id VARCHAR(255) PRIMARY KEY REFERENCES users(id),
			bio TEXT DEFAULT '',
			location VARCHAR(100) DEFAULT '',
			location_pref VARCHAR(50) DEFAULT 'flexible',
			availability_hours INTEGER DEFAULT 0,
			start_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			goal VARCHAR(50) DEFAULT '',
			domains JSONB DEFAULT '[]',
			role_can JSONB DEFAULT '[]',
			role_want JSONB DEFAULT '[]',
			role_need JSONB DEFAULT '[]',
			skills JSONB DEFAULT '[]',
			comm_channel VARCHAR(50),
			response_sla INTEGER,
			meeting_freq VARCHAR(50),
			conflict_style VARCHAR(50),
			decision_consensus INTEGER,
			decision_data INTEGER,
			decision_speed INTEGER,
			decision_flexibility INTEGER,
			decision_risk INTEGER,
			is_public BOOLEAN DEFAULT true,
			completeness INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS trait_results (
			user_id VARCHAR(255) PRIMARY KEY REFERENCES users(id),
			leadership INTEGER,
			execution INTEGER,
			communication INTEGER,
			risk INTEGER,
			conflict INTEGER,
			flexibility INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS trust_scores (
			user_id VARCHAR(255) PRIMARY KEY REFERENCES users(id),
			completeness INTEGER DEFAULT 0,
			evidence_strength INTEGER DEFAULT 0,
			activity INTEGER DEFAULT 0,
			reputation INTEGER DEFAULT 0,
			total INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS startup_mbti (
			user_id VARCHAR(255) PRIMARY KEY REFERENCES users(id),
			external_id VARCHAR(255),
			data JSONB,
			synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			user_id VARCHAR(255) NOT NULL,
			blocked_user_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, blocked_user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS match_scores (
			id VARCHAR(255) PRIMARY KEY,
			viewer_id VARCHAR(255) NOT NULL,
			candidate_id VARCHAR(255) NOT NULL,
			stability INTEGER,
			synergy INTEGER,
			trust INTEGER,
			penalties INTEGER,
			total INTEGER,
			reasons_top3 JSONB,
			caution TEXT,
			calculated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (viewer_id, candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS evidence_links (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			url TEXT NOT NULL,
			verified_by_user BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to create table: %v", err)
		}
	}

	// Insert test data
	testData := []string{
		`INSERT INTO users (id, email, nickname, status, last_active_at)
		 VALUES ('e2e-viewer-001', 'e2e-viewer@example.com', 'e2e-viewer', 'active', NOW())
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO users (id, email, nickname, status, last_active_at)
		 VALUES ('e2e-candidate-002', 'e2e-candidate-2@example.com', 'e2e-designer', 'active', NOW() - INTERVAL '2 days')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO users (id, email, nickname, status, last_active_at)
		 VALUES ('e2e-candidate-003', 'e2e-candidate-3@example.com', 'e2e-marketer', 'active', NOW() - INTERVAL '5 days')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO users (id, email, nickname, status, last_active_at)
		 VALUES ('e2e-blocked-004', 'e2e-blocked@example.com', 'e2e-blocked', 'active', NOW())
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO profiles (user_id, bio, location, location_pref, availability_hours, start_date, goal,
			domains, role_can, role_want, role_need, skills,
			comm_channel, response_sla, meeting_freq, conflict_style,
			decision_consensus, decision_data, decision_speed, decision_flexibility, decision_risk,
			is_public, completeness)
		 VALUES ('e2e-viewer-001', 'builder', 'Seoul', 'flexible', 40, NOW(), 'revenue',
			'["fintech"]', '["developer"]', '["cto"]', '["designer"]', '["go","postgres"]',
			'slack', 4, 'weekly', 'discuss',
			3, 4, 3, 3, 2,
			true, 85)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO profiles (user_id, bio, location, location_pref, availability_hours, start_date, goal,
			domains, role_can, role_want, role_need, skills,
			comm_channel, response_sla, meeting_freq, conflict_style,
			decision_consensus, decision_data, decision_speed, decision_flexibility, decision_risk,
			is_public, completeness)
		 VALUES ('e2e-candidate-002', 'designer', 'Seoul', 'flexible', 35, NOW(), 'revenue',
			'["fintech"]', '["designer"]', '["designer"]', '["developer"]', '["figma"]',
			'slack', 8, 'weekly', 'discuss',
			4, 3, 3, 4, 3,
			true, 90)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO profiles (user_id, bio, location, location_pref, availability_hours, start_date, goal,
			domains, role_can, role_want, role_need, skills,
			comm_channel, response_sla, meeting_freq, conflict_style,
			decision_consensus, decision_data, decision_speed, decision_flexibility, decision_risk,
			is_public, completeness)
		 VALUES ('e2e-candidate-003', 'marketer', 'Busan', 'hybrid', 45, NOW(), 'revenue',
			'["commerce"]', '["marketer"]', '["designer"]', '["developer"]', '["ads"]',
			'discord', 12, 'biweekly', 'avoid',
			2, 3, 4, 2, 4,
			true, 70)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO profiles (user_id, location_pref, availability_hours, start_date, goal, role_can, is_public, completeness)
		 VALUES ('e2e-blocked-004', 'flexible', 40, NOW(), 'revenue', '["designer"]', true, 50)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO trait_results (user_id, leadership, execution, communication, risk, conflict, flexibility)
		 VALUES ('e2e-viewer-001', 70, 80, 65, 50, 60, 55)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO trait_results (user_id, leadership, execution, communication, risk, conflict, flexibility)
		 VALUES ('e2e-candidate-002', 55, 70, 80, 45, 70, 75)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO trust_scores (user_id, completeness, evidence_strength, activity, reputation, total)
		 VALUES ('e2e-candidate-002', 90, 60, 100, 50, 78)
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO startup_mbti (user_id, external_id, data)
		 VALUES ('e2e-viewer-001', 'e2e-mbti-viewer', '{"mbtiType": "ENTJ", "stressIndex": 40}')
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO startup_mbti (user_id, external_id, data)
		 VALUES ('e2e-candidate-002', 'e2e-mbti-cand', '{"mbtiType": "INFP", "stressIndex": 55}')
		 ON CONFLICT (user_id) DO NOTHING`,
		`INSERT INTO blocks (user_id, blocked_user_id)
		 VALUES ('e2e-viewer-001', 'e2e-blocked-004')
		 ON CONFLICT DO NOTHING`,
		`INSERT INTO evidence_links (user_id, url, verified_by_user)
		 SELECT 'e2e-viewer-001', 'https://github.com/e2e-viewer', true
		 WHERE NOT EXISTS (SELECT 1 FROM evidence_links WHERE user_id = 'e2e-viewer-001')`,
	}

	for _, query := range testData {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to insert test data: %v", err)
		}
	}

	t.Log("✅ Database tables created/verified with test data")
}

// ==========================
// 3. Elasticsearch Explore Index
// ==========================
func seedExploreIndex(t *testing.T, cfg *config.Config) {
	t.Log("🔧 Seeding Elasticsearch explore index...")

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Database.Elasticsearch.GetURL()},
	})
	require.NoError(t, err)

	mapping := `{
		"mappings": {
			"properties": {
				"isPublic":          {"type": "boolean"},
				"status":            {"type": "keyword"},
				"availabilityHours": {"type": "integer"},
				"goal":              {"type": "keyword"},
				"locationPref":      {"type": "keyword"},
				"lastActiveAt":      {"type": "date"}
			}
		}
	}`

	// resource_already_exists_exception is fine on reruns
	res, err := es.Indices.Create(cfg.Matching.ExploreIndex, es.Indices.Create.WithBody(strings.NewReader(mapping)))
	if err == nil {
		res.Body.Close()
	}

	docs := map[string]string{
		"e2e-candidate-002": `{"isPublic": true, "status": "active", "availabilityHours": 35, "goal": "revenue", "locationPref": "flexible", "lastActiveAt": "2026-08-30T00:00:00Z"}`,
		"e2e-candidate-003": `{"isPublic": true, "status": "active", "availabilityHours": 45, "goal": "revenue", "locationPref": "hybrid", "lastActiveAt": "2026-08-27T00:00:00Z"}`,
	}

	for id, doc := range docs {
		res, err := es.Index(cfg.Matching.ExploreIndex, strings.NewReader(doc),
			es.Index.WithDocumentID(id),
			es.Index.WithRefresh("true"),
		)
		require.NoError(t, err, "❌ Failed to index explore document")
		res.Body.Close()
	}

	t.Log("✅ Explore index seeded")
}

// ==========================
// 4. Deploy All BPMN Files
// ==========================
func deployAllBPMN(t *testing.T, _ *config.Config, _ *zap.Logger) {
	t.Log("🏗️ Deploying BPMN files...")

	client := zeebeClient

	// Try multiple possible paths for BPMN directory
	possiblePaths := []string{
		"bpmn",
		"../bpmn",
		"../../bpmn",
		"./bpmn",
	}

	var bpmnDir string
	var files []os.DirEntry
	var err error

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			files, err = os.ReadDir(path)
			if err == nil {
				bpmnDir = path
				t.Logf("📁 Found BPMN directory: %s", bpmnDir)
				break
			}
		}
	}

	if bpmnDir == "" {
		t.Log("⚠️ BPMN directory not found in any expected location, skipping deployment")
		return
	}

	require.NoError(t, err, "❌ Cannot read BPMN directory")

	bpmnCount := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}

		path := fmt.Sprintf("%s/%s", bpmnDir, f.Name())
		t.Logf("📄 Deploying BPMN: %s", path)

		_, err := client.NewDeployResourceCommand().AddResourceFile(path).Send(context.Background())
		if err != nil {
			t.Logf("⚠️ Failed to deploy BPMN %s: %v", f.Name(), err)
		} else {
			t.Logf("✅ Deployed: %s", f.Name())
			bpmnCount++
		}
	}

	if bpmnCount == 0 {
		t.Log("ℹ️ No BPMN files were successfully deployed")
	} else {
		t.Logf("✅ Successfully deployed %d BPMN files", bpmnCount)
	}
}

// ==========================
// 5. Test All 6 Workers
// ==========================
func testAllWorkers(t *testing.T, cfg *config.Config, log *zap.Logger) {
	t.Log("🧪 Testing all 6 workers with real execution...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Database.Elasticsearch.GetURL()},
	})
	require.NoError(t, err)

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdbClient.Close()

	rdb := rdbClient.GetClient()

	testCases := []struct {
		name   string
		testFn func(*testing.T, *config.Config, *zap.Logger, *sql.DB, *elasticsearch.Client, *redis.Client)
	}{
		{"get-recommendations", testGetRecommendations},
		{"get-match-detail", testGetMatchDetail},
		{"explore-candidates", testExploreCandidates},
		{"update-trust-score", testUpdateTrustScore},
		{"sync-mbti-profile", testSyncMbtiProfile},
		{"send-match-notification", testSendMatchNotification},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.testFn(t, cfg, log, db, es, rdb)
		})
	}
}

// ==========================
// Worker Test Functions
// ==========================

func testGetRecommendations(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := getrecommendations.NewHandler(&getrecommendations.Config{
		CacheTTL:        time.Minute,
		Timeout:         30 * time.Second,
		DefaultLimit:    10,
		MaxLimit:        50,
		MaxSuggestions:  2,
		SeedEmailDomain: cfg.Matching.SeedEmailDomain,
	}, db, rdb, logger.NewZapAdapter(log))

	input := &getrecommendations.Input{UserID: "e2e-viewer-001", Limit: 10}
	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.Greater(t, output.FilteredCount, 0, "seeded candidates should survive the hard filters")
	assert.NotEmpty(t, output.Recommendations)
	for _, rec := range output.Recommendations {
		assert.NotEqual(t, "e2e-viewer-001", rec.UserID)
		assert.NotEqual(t, "e2e-blocked-004", rec.UserID, "blocked users must never be recommended")
		assert.GreaterOrEqual(t, rec.MatchScore.Total, 0)
		assert.LessOrEqual(t, rec.MatchScore.Total, 100)
	}

	// Unknown viewer surfaces as a business error
	_, err = handler.Execute(context.Background(), &getrecommendations.Input{UserID: "e2e-missing-user"})
	assert.Error(t, err)
}

func testGetMatchDetail(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := getmatchdetail.NewHandler(&getmatchdetail.Config{
		CacheTTL:        time.Minute,
		Timeout:         15 * time.Second,
		SeedEmailDomain: cfg.Matching.SeedEmailDomain,
	}, db, rdb, logger.NewZapAdapter(log))

	input := &getmatchdetail.Input{UserID: "e2e-viewer-001", CandidateID: "e2e-candidate-002"}
	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.NotNil(t, output.Profile)
	assert.Equal(t, "e2e-candidate-002", output.MatchScore.CandidateID)
	assert.GreaterOrEqual(t, output.MatchScore.Total, 0)
	assert.LessOrEqual(t, output.MatchScore.Total, 100)

	// Blocked pair must refuse the detail view in both directions
	_, err = handler.Execute(context.Background(), &getmatchdetail.Input{
		UserID:      "e2e-viewer-001",
		CandidateID: "e2e-blocked-004",
	})
	assert.Error(t, err)

	_, err = handler.Execute(context.Background(), &getmatchdetail.Input{
		UserID:      "e2e-blocked-004",
		CandidateID: "e2e-viewer-001",
	})
	assert.Error(t, err)
}

func testExploreCandidates(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := explorecandidates.NewHandler(&explorecandidates.Config{
		Index:           cfg.Matching.ExploreIndex,
		CacheTTL:        time.Minute,
		Timeout:         30 * time.Second,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		SeedEmailDomain: cfg.Matching.SeedEmailDomain,
	}, db, rdb, es, logger.NewZapAdapter(log))

	input := &explorecandidates.Input{
		UserID: "e2e-viewer-001",
		Filters: explorecandidates.ExploreFilters{
			Goals: []string{"revenue"},
		},
		Page:     1,
		PageSize: 20,
	}
	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.GreaterOrEqual(t, output.Total, int64(2), "seeded explore documents should match the goal filter")
	assert.Equal(t, 1, output.Page)
	assert.NotEmpty(t, output.Items)

	// Narrow hours range should drop the 45h candidate
	narrow := &explorecandidates.Input{
		UserID: "e2e-viewer-001",
		Filters: explorecandidates.ExploreFilters{
			HoursMin: 30,
			HoursMax: 40,
		},
	}
	narrowOut, err := handler.Execute(context.Background(), narrow)
	require.NoError(t, err)
	for _, item := range narrowOut.Items {
		assert.NotEqual(t, "e2e-candidate-003", item.UserID)
	}
}

func testUpdateTrustScore(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	handler := updatetrustscore.NewHandler(&updatetrustscore.Config{
		CacheTTL: time.Minute,
		Timeout:  15 * time.Second,
	}, db, rdb, logger.NewZapAdapter(log))

	input := &updatetrustscore.Input{UserID: "e2e-viewer-001"}
	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.True(t, output.Updated)
	assert.GreaterOrEqual(t, output.TrustScore.Total, 0)
	assert.LessOrEqual(t, output.TrustScore.Total, 100)
	assert.Greater(t, output.TrustScore.Activity, 0, "recently active user should earn activity points")

	// Unknown user surfaces as a business error
	_, err = handler.Execute(context.Background(), &updatetrustscore.Input{UserID: "e2e-missing-user"})
	assert.Error(t, err)
}

func testSyncMbtiProfile(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	// No provider running locally, so only the validation and transport
	// failure paths are exercised here.
	handler := syncmbtiprofile.NewHandler(&syncmbtiprofile.Config{
		ProviderBaseURL: "http://localhost:9999",
		ProviderTimeout: 2 * time.Second,
		CacheTTL:        time.Minute,
		Timeout:         5 * time.Second,
	}, db, rdb, logger.NewZapAdapter(log))

	_, err := handler.Execute(context.Background(), &syncmbtiprofile.Input{
		UserID:     "e2e-viewer-001",
		ExternalID: "not a valid id!",
	})
	assert.ErrorIs(t, err, syncmbtiprofile.ErrInvalidExternalID)

	_, err = handler.Execute(context.Background(), &syncmbtiprofile.Input{
		UserID:     "e2e-viewer-001",
		ExternalID: "e2e-unreachable-provider",
	})
	assert.Error(t, err)
}

func testSendMatchNotification(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, rdb *redis.Client) {
	// No AWS credentials in the e2e environment, so only the channel
	// validation path is exercised here.
	handler := sendmatchnotification.NewHandler(&sendmatchnotification.Config{
		Timeout:   5 * time.Second,
		Region:    cfg.Notifications.AWS.Region,
		FromEmail: cfg.Notifications.Email.FromEmail,
	}, nil, nil, logger.NewZapAdapter(log))

	_, err := handler.Execute(context.Background(), &sendmatchnotification.Input{
		UserID:            "e2e-viewer-001",
		Nickname:          "e2e-viewer",
		CandidateNickname: "e2e-designer",
		MatchTotal:        82,
		Channel:           "carrier-pigeon",
	})
	assert.ErrorIs(t, err, sendmatchnotification.ErrInvalidChannel)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_GetRecommendations(b *testing.B) {
	cfg, err := config.Load()
	if err != nil {
		b.Fatal(err)
	}
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		b.Fatal(err)
	}
	defer dbClient.Close()

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		b.Fatal(err)
	}
	defer rdbClient.Close()

	handler := getrecommendations.NewHandler(&getrecommendations.Config{
		CacheTTL:        time.Minute,
		Timeout:         30 * time.Second,
		DefaultLimit:    10,
		MaxLimit:        50,
		MaxSuggestions:  2,
		SeedEmailDomain: cfg.Matching.SeedEmailDomain,
	}, dbClient.GetDB(), rdbClient.GetClient(), logger.NewZapAdapter(zapLog))

	input := &getrecommendations.Input{UserID: "e2e-viewer-001", Limit: 10}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_UpdateTrustScore(b *testing.B) {
	cfg, err := config.Load()
	if err != nil {
		b.Fatal(err)
	}
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		b.Fatal(err)
	}
	defer dbClient.Close()

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		b.Fatal(err)
	}
	defer rdbClient.Close()

	handler := updatetrustscore.NewHandler(&updatetrustscore.Config{
		CacheTTL: time.Minute,
		Timeout:  15 * time.Second,
	}, dbClient.GetDB(), rdbClient.GetClient(), logger.NewZapAdapter(zapLog))

	input := &updatetrustscore.Input{UserID: "e2e-viewer-001"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}
