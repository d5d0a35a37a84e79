//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

const (
	apiPrefix      = "/api/v1"
	eventualWait   = 2 * time.Second
	eventualPoll   = 50 * time.Millisecond
	settleInterval = 100 * time.Millisecond
)

type testContext struct {
	suite *suite
	uri   string

	client      *http.Client
	headers     map[string]string
	accessToken string
	response    *response

	tokens        map[string]string
	refreshTokens map[string]string
	groups        map[string]string
	joinCodes     map[string]string
	gifts         map[string]string
	inviteToken   string
	claimStatuses []int
}

type response struct {
	status int
	body   any
	header http.Header
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	s := startSuite()
	test := &testContext{
		suite:  s,
		uri:    s.server.URL,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, test.theCurrentTimeIs)

	// User steps
	ctx.Given(`^the following users exist:$`, test.theFollowingUsersExist)
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Group and gift fixtures driven through the API
	ctx.Given(`^"([^"]*)" creates a "([^"]*)" group named "([^"]*)" for "([^"]*)"$`, test.userCreatesGroup)
	ctx.Given(`^"([^"]*)" joins the group "([^"]*)"$`, test.userJoinsGroup)
	ctx.Given(`^"([^"]*)" adds the gift "([^"]*)" to "([^"]*)"$`, test.userAddsGift)
	ctx.Given(`^"([^"]*)" adds the gift "([^"]*)" with url "([^"]*)" to "([^"]*)"$`, test.userAddsGiftWithURL)
	ctx.Given(`^"([^"]*)" claims the gift "([^"]*)"$`, test.userClaimsGift)
	ctx.Given(`^the pairings of "([^"]*)" were drawn by "([^"]*)"$`, test.pairingsWereDrawn)
	ctx.Given(`^the invitation for "([^"]*)" to "([^"]*)" is known$`, test.theInvitationIsKnown)
	ctx.Given(`^a product page "([^"]*)" advertises the image "([^"]*)"$`, test.aProductPageAdvertisesImage)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the following users concurrently claim the gift "([^"]*)":$`, test.usersConcurrentlyClaim)
	ctx.When(`^the email worker delivers queued emails$`, test.theEmailWorkerDelivers)
	ctx.When(`^the rate limit window elapses$`, test.theRateLimitWindowElapses)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response header "([^"]*)" should be "([^"]*)"$`, test.theResponseHeaderShouldBe)
	ctx.Then(`^the response items in "([^"]*)" should not include the gift "([^"]*)"$`, test.theResponseItemsShouldNotInclude)

	// Domain assertion steps
	ctx.Then(`^exactly (\d+) claims? should have succeeded$`, test.exactlyClaimsSucceeded)
	ctx.Then(`^every member of "([^"]*)" gives to exactly one other member$`, test.everyMemberGivesToOneOther)
	ctx.Then(`^(\d+) emails? should have been sent to "([^"]*)"$`, test.emailsShouldHaveBeenSentTo)
	ctx.Then(`^the page "([^"]*)" should have been fetched (\d+) times?$`, test.thePageShouldHaveBeenFetched)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Step(`^the db should eventually contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldEventuallyContainObjectsInWithTheValues)
}

func (t *testContext) before() error {
	// Let notifications from the previous scenario land before wiping tables.
	time.Sleep(settleInterval)

	t.headers = map[string]string{}
	t.accessToken = ""
	t.response = nil
	t.tokens = map[string]string{}
	t.refreshTokens = map[string]string{}
	t.groups = map[string]string{}
	t.joinCodes = map[string]string{}
	t.gifts = map[string]string{}
	t.inviteToken = ""
	t.claimStatuses = nil

	t.suite.timeMock.Reset()
	t.suite.sender.Reset()
	t.suite.pages.Reset()
	if err := t.suite.redis.Flush(); err != nil {
		return err
	}
	return t.suite.db.ClearDB()
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.uri + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	t.suite.timeMock.SetCurrentTime(now)
	return nil
}

func (t *testContext) theFollowingUsersExist(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		name, email, password := row.Cells[0].Value, row.Cells[1].Value, row.Cells[2].Value
		payload, _ := json.Marshal(map[string]string{
			"name":     name,
			"email":    email,
			"password": password,
		})
		resp, err := t.do(http.MethodPost, apiPrefix+"/auth/register", payload, "")
		if err != nil {
			return err
		}
		if resp.status != http.StatusCreated {
			return fmt.Errorf("register %s returned %d: %v", email, resp.status, resp.body)
		}
		t.tokens[email] = stringField(resp.body, "access_token")
		t.refreshTokens[email] = stringField(resp.body, "refresh_token")
	}
	return nil
}

func (t *testContext) iAmLoggedInAs(email string) error {
	token, ok := t.tokens[email]
	if !ok {
		return fmt.Errorf("unknown user %q", email)
	}
	t.accessToken = token
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = map[string]string{}
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) userCreatesGroup(email, mode, name, date string) error {
	eventDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(map[string]any{
		"name":             name,
		"game_mode":        mode,
		"celebration_type": "christmas",
		"event_date":       eventDate.Format(time.RFC3339),
	})
	resp, err := t.do(http.MethodPost, apiPrefix+"/groups", payload, t.tokens[email])
	if err != nil {
		return err
	}
	if resp.status != http.StatusCreated {
		return fmt.Errorf("create group returned %d: %v", resp.status, resp.body)
	}
	t.groups[name] = stringField(resp.body, "id")
	t.joinCodes[name] = stringField(resp.body, "join_code")
	return nil
}

func (t *testContext) userJoinsGroup(email, name string) error {
	code, ok := t.joinCodes[name]
	if !ok {
		return fmt.Errorf("unknown group %q", name)
	}
	resp, err := t.do(http.MethodPost, apiPrefix+"/groups/code/"+code+"/join", nil, t.tokens[email])
	if err != nil {
		return err
	}
	if resp.status != http.StatusCreated {
		return fmt.Errorf("join returned %d: %v", resp.status, resp.body)
	}
	return nil
}

func (t *testContext) userAddsGift(email, gift, group string) error {
	return t.addGift(email, gift, nil, group)
}

func (t *testContext) userAddsGiftWithURL(email, gift, rawURL, group string) error {
	rawURL = t.replacePlaceholders(rawURL)
	return t.addGift(email, gift, &rawURL, group)
}

func (t *testContext) addGift(email, gift string, rawURL *string, group string) error {
	payload, _ := json.Marshal(map[string]any{
		"name":     gift,
		"url":      rawURL,
		"group_id": t.groups[group],
	})
	resp, err := t.do(http.MethodPost, apiPrefix+"/gifts", payload, t.tokens[email])
	if err != nil {
		return err
	}
	if resp.status != http.StatusCreated {
		return fmt.Errorf("create gift returned %d: %v", resp.status, resp.body)
	}
	t.gifts[gift] = stringField(resp.body, "id")
	return nil
}

func (t *testContext) userClaimsGift(email, gift string) error {
	resp, err := t.do(http.MethodPut, apiPrefix+"/gifts/"+t.gifts[gift]+"/buy", nil, t.tokens[email])
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("claim returned %d: %v", resp.status, resp.body)
	}
	return nil
}

func (t *testContext) pairingsWereDrawn(group, email string) error {
	resp, err := t.do(http.MethodPost, apiPrefix+"/groups/"+t.groups[group]+"/secret-santa/pairings", nil, t.tokens[email])
	if err != nil {
		return err
	}
	if resp.status != http.StatusCreated {
		return fmt.Errorf("draw returned %d: %v", resp.status, resp.body)
	}
	return nil
}

func (t *testContext) theInvitationIsKnown(email, group string) error {
	var invite model.GroupInviteModel
	err := t.suite.db.DbConn.
		Where("group_id = ? AND email = ?", t.groups[group], email).
		First(&invite).Error
	if err != nil {
		return fmt.Errorf("invite not found: %w", err)
	}
	t.inviteToken = invite.Token
	return nil
}

func (t *testContext) aProductPageAdvertisesImage(path, image string) error {
	html := fmt.Sprintf(`<html><head><meta property="og:image" content="%s"></head><body></body></html>`, image)
	t.suite.pages.SetPage(path, http.StatusOK, html)
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) usersConcurrentlyClaim(gift string, table *godog.Table) error {
	path := apiPrefix + "/gifts/" + t.gifts[gift] + "/buy"

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	start := make(chan struct{})
	errs := make(chan error, len(table.Rows))
	for _, row := range table.Rows {
		token := t.tokens[row.Cells[0].Value]
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			resp, err := t.do(http.MethodPut, path, nil, token)
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			t.claimStatuses = append(t.claimStatuses, resp.status)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()
	close(errs)
	return <-errs
}

func (t *testContext) theEmailWorkerDelivers() error {
	t.suite.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

// replacePlaceholders expands {{group:Name}}, {{code:Name}}, {{gift:Name}},
// {{refresh_token:email}}, {{invite_token}} and {{pages}}.
func (t *testContext) replacePlaceholders(content string) string {
	for name, id := range t.groups {
		content = strings.ReplaceAll(content, "{{group:"+name+"}}", id)
	}
	for name, code := range t.joinCodes {
		content = strings.ReplaceAll(content, "{{code:"+name+"}}", code)
	}
	for name, id := range t.gifts {
		content = strings.ReplaceAll(content, "{{gift:"+name+"}}", id)
	}
	for email, token := range t.refreshTokens {
		content = strings.ReplaceAll(content, "{{refresh_token:"+email+"}}", token)
	}
	content = strings.ReplaceAll(content, "{{invite_token}}", t.inviteToken)
	content = strings.ReplaceAll(content, "{{pages}}", t.suite.pages.GetUrl())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	resp, err := t.do(method, path, payload, t.accessToken)
	if err != nil {
		return err
	}
	t.response = resp
	return nil
}

func (t *testContext) do(method, path string, payload []byte, token string) (*response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.uri+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	result := &response{status: resp.StatusCode, header: resp.Header}
	var decoded map[string]any
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		result.body = string(bodyBytes)
	} else {
		result.body = decoded
	}
	return result, nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	if actual := fmt.Sprintf("%v", value); actual != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldBe(key, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if actual := t.response.header.Get(key); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", key, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseItemsShouldNotInclude(field, gift string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, _ := getFieldValue(body, field).([]any)
	for _, item := range items {
		if m, ok := item.(map[string]any); ok && m["id"] == t.gifts[gift] {
			return fmt.Errorf("gift %q unexpectedly listed in '%s'", gift, field)
		}
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) exactlyClaimsSucceeded(expected int) error {
	succeeded := 0
	for _, status := range t.claimStatuses {
		switch status {
		case http.StatusOK:
			succeeded++
		case http.StatusConflict:
		default:
			return fmt.Errorf("unexpected claim status %d", status)
		}
	}
	if succeeded != expected {
		return fmt.Errorf("expected %d successful claims, got %d (%v)", expected, succeeded, t.claimStatuses)
	}
	return nil
}

func (t *testContext) everyMemberGivesToOneOther(group string) error {
	var members []model.GroupMemberModel
	if err := t.suite.db.DbConn.Where("group_id = ?", t.groups[group]).Find(&members).Error; err != nil {
		return err
	}
	var pairings []model.PairingModel
	if err := t.suite.db.DbConn.Where("group_id = ?", t.groups[group]).Find(&pairings).Error; err != nil {
		return err
	}
	if len(pairings) != len(members) {
		return fmt.Errorf("expected %d pairings, got %d", len(members), len(pairings))
	}

	givers := map[uuid.UUID]bool{}
	receivers := map[uuid.UUID]bool{}
	for _, p := range pairings {
		if p.GiverID == p.ReceiverID {
			return fmt.Errorf("member %s was paired with themselves", p.GiverID)
		}
		if givers[p.GiverID] || receivers[p.ReceiverID] {
			return errors.New("pairings are not a permutation")
		}
		givers[p.GiverID] = true
		receivers[p.ReceiverID] = true
	}
	for _, m := range members {
		if !givers[m.UserID] || !receivers[m.UserID] {
			return fmt.Errorf("member %s is missing from the pairings", m.UserID)
		}
	}
	return nil
}

func (t *testContext) theRateLimitWindowElapses() error {
	t.suite.redis.FastForward(t.suite.window + time.Second)
	return nil
}

func (t *testContext) emailsShouldHaveBeenSentTo(count int, email string) error {
	sent := 0
	for _, e := range t.suite.sender.Sent() {
		if e.To == email {
			sent++
		}
	}
	if sent != count {
		return fmt.Errorf("expected %d emails to %s, got %d", count, email, sent)
	}
	return nil
}

func (t *testContext) thePageShouldHaveBeenFetched(path string, count int) error {
	if hits := t.suite.pages.Hits(path); hits != count {
		return fmt.Errorf("expected %s to be fetched %d times, got %d", path, count, hits)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	criteria, err := t.criteria(content)
	if err != nil {
		return err
	}
	count, err := t.countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) theDbShouldEventuallyContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	criteria, err := t.criteria(content)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(eventualWait)
	for {
		count, err := t.countRows(table, criteria)
		if err != nil {
			return err
		}
		if count == quantity {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		time.Sleep(eventualPoll)
	}
}

func (t *testContext) criteria(content *godog.DocString) (map[string]any, error) {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

func (t *testContext) countRows(table string, criteria map[string]any) (int, error) {
	entity, ok := t.suite.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.suite.db.DbConn.Unscoped()
	for key, value := range criteria {
		if value == nil {
			query = query.Where(fmt.Sprintf("%s IS NULL", key))
			continue
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	if err := query.Find(entitySlicePtr.Interface()).Error; err != nil {
		return 0, err
	}
	return entitySlicePtr.Elem().Len(), nil
}

func stringField(body any, field string) string {
	s, _ := getFieldValue(body, field).(string)
	return s
}

func getFieldValue(object any, dotSeparatedField string) any {
	var field any = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		switch v := field.(type) {
		case map[string]any:
			field = v[currentField]
		case []any:
			i, err := strconv.Atoi(currentField)
			if err != nil || i >= len(v) {
				return nil
			}
			field = v[i]
		default:
			return nil
		}
	}
	return field
}
