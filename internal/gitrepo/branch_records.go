package gitrepo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	branchRecordFieldSeparatorConstant  = "\x00"
	branchRecordLineSeparatorConstant   = "\n"
	branchRecordCarriageReturnConstant  = "\r"
	branchRecordFieldCountConstant      = 6
	branchRecordNameIndexConstant       = 0
	branchRecordUpstreamIndexConstant   = 1
	branchRecordTrackIndexConstant      = 2
	branchRecordCommitTimeIndexConstant = 3
	branchRecordAuthorIndexConstant     = 4
	branchRecordCommitIndexConstant     = 5
	upstreamGoneMarkerConstant          = "[gone]"

	// BranchRecordFormatConstant is the for-each-ref format consumed by ParseBranchRecords.
	BranchRecordFormatConstant = "%(refname:lstrip=2)%00%(upstream:short)%00%(upstream:track)%00%(committerdate:unix)%00%(authorname)%00%(objectname)"

	malformedBranchRecordMessageConstant        = "malformed branch record"
	unreadableCommitTimeMessageConstant         = "unreadable commit time"
	malformedBranchRecordFieldsTemplateConstant = "%w: expected %d fields, found %d in %q"
	malformedBranchRecordNameTemplateConstant   = "%w: empty branch name in %q"
	unreadableCommitTimeTemplateConstant        = "%w %q for branch %s"
)

// ErrMalformedBranchRecord indicates for-each-ref output that does not match BranchRecordFormatConstant.
var ErrMalformedBranchRecord = errors.New(malformedBranchRecordMessageConstant)

// ErrUnreadableCommitTime indicates a branch whose last commit time could not be parsed.
var ErrUnreadableCommitTime = errors.New(unreadableCommitTimeMessageConstant)

// TrackingState describes the relationship between a local branch and its upstream.
type TrackingState string

// Supported tracking states.
const (
	TrackingStateGone      TrackingState = "gone"
	TrackingStateTracking  TrackingState = "tracking"
	TrackingStateUntracked TrackingState = "untracked"
)

// BranchRecord describes a local branch as reported by git for-each-ref.
type BranchRecord struct {
	Name              string
	Upstream          string
	TrackingState     TrackingState
	CommitUnixSeconds int64
	CommitTime        time.Time
	CommitTimeError   error
	Author            string
	Commit            string
}

// UpstreamGone reports whether the configured upstream no longer exists.
func (record BranchRecord) UpstreamGone() bool {
	return record.TrackingState == TrackingStateGone
}

// HasCommitTime reports whether the last commit time was readable.
func (record BranchRecord) HasCommitTime() bool {
	return record.CommitTimeError == nil
}

// ParseBranchRecords converts for-each-ref output into typed records in the
// order git listed them. A record with the wrong number of fields fails the
// whole parse; an unreadable commit time is reported on the record itself.
func ParseBranchRecords(output string) ([]BranchRecord, error) {
	records := make([]BranchRecord, 0)
	for _, line := range strings.Split(output, branchRecordLineSeparatorConstant) {
		trimmedLine := strings.TrimSuffix(line, branchRecordCarriageReturnConstant)
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}

		record, parseError := parseBranchRecord(trimmedLine)
		if parseError != nil {
			return nil, parseError
		}
		records = append(records, record)
	}
	return records, nil
}

func parseBranchRecord(line string) (BranchRecord, error) {
	fields := strings.Split(line, branchRecordFieldSeparatorConstant)
	if len(fields) != branchRecordFieldCountConstant {
		return BranchRecord{}, fmt.Errorf(malformedBranchRecordFieldsTemplateConstant, ErrMalformedBranchRecord, branchRecordFieldCountConstant, len(fields), line)
	}

	branchName := strings.TrimSpace(fields[branchRecordNameIndexConstant])
	if len(branchName) == 0 {
		return BranchRecord{}, fmt.Errorf(malformedBranchRecordNameTemplateConstant, ErrMalformedBranchRecord, line)
	}

	upstream := strings.TrimSpace(fields[branchRecordUpstreamIndexConstant])
	record := BranchRecord{
		Name:          branchName,
		Upstream:      upstream,
		TrackingState: resolveTrackingState(upstream, fields[branchRecordTrackIndexConstant]),
		Author:        strings.TrimSpace(fields[branchRecordAuthorIndexConstant]),
		Commit:        strings.TrimSpace(fields[branchRecordCommitIndexConstant]),
	}

	rawCommitTime := strings.TrimSpace(fields[branchRecordCommitTimeIndexConstant])
	commitUnixSeconds, commitTimeError := strconv.ParseInt(rawCommitTime, 10, 64)
	if commitTimeError != nil {
		record.CommitTimeError = fmt.Errorf(unreadableCommitTimeTemplateConstant, ErrUnreadableCommitTime, rawCommitTime, branchName)
		return record, nil
	}
	record.CommitUnixSeconds = commitUnixSeconds
	record.CommitTime = time.Unix(commitUnixSeconds, 0).UTC()
	return record, nil
}

func resolveTrackingState(upstream string, track string) TrackingState {
	if strings.TrimSpace(track) == upstreamGoneMarkerConstant {
		return TrackingStateGone
	}
	if len(upstream) == 0 {
		return TrackingStateUntracked
	}
	return TrackingStateTracking
}
