package aws

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// refClass routes a resource reference to the service API that owns its tags.
type refClass int

const (
	refUnknown refClass = iota
	refEC2
	refS3
	refRDS
	refLambda
	refELB
	refLogs
)

func classifyRef(ref string) (refClass, string) {
	if strings.HasPrefix(ref, "i-") || strings.HasPrefix(ref, "vol-") ||
		strings.HasPrefix(ref, "snap-") || strings.HasPrefix(ref, "eni-") {
		return refEC2, ""
	}
	if !strings.HasPrefix(ref, "arn:") {
		return refUnknown, ""
	}
	// arn:partition:service:region:account:resource
	parts := strings.SplitN(ref, ":", 6)
	if len(parts) < 6 {
		return refUnknown, ""
	}
	region := parts[3]
	switch parts[2] {
	case "s3":
		return refS3, region
	case "rds":
		return refRDS, region
	case "lambda":
		return refLambda, region
	case "elasticloadbalancing":
		return refELB, region
	case "logs":
		return refLogs, region
	}
	return refUnknown, region
}

// ResolveTags looks up the tags for a batch of resource references, fanning
// out one goroutine per owning service. Refs whose service has no tags or
// whose lookup fails resolve to an empty list rather than failing the batch.
func (r *AWSRepositoryImpl) ResolveTags(ctx context.Context, profile string, refs []string) (map[string][]entity.TagEntry, error) {
	byClass := make(map[refClass][]string)
	regions := make(map[string]string)
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		class, region := classifyRef(ref)
		byClass[class] = append(byClass[class], ref)
		if region != "" {
			regions[ref] = region
		}
	}

	result := make(map[string][]entity.TagEntry, len(refs))
	var mu sync.Mutex
	put := func(ref string, tags []entity.TagEntry) {
		mu.Lock()
		result[ref] = tags
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	if ids := byClass[refEC2]; len(ids) > 0 {
		g.Go(func() error {
			r.resolveEC2Tags(gctx, profile, ids, put)
			return nil
		})
	}
	if arns := byClass[refELB]; len(arns) > 0 {
		g.Go(func() error {
			r.resolveELBTags(gctx, profile, arns, regions, put)
			return nil
		})
	}
	for _, ref := range byClass[refS3] {
		ref := ref
		g.Go(func() error {
			put(ref, r.resolveS3Tags(gctx, profile, ref))
			return nil
		})
	}
	for _, ref := range byClass[refRDS] {
		ref := ref
		g.Go(func() error {
			put(ref, r.resolveRDSTags(gctx, profile, ref, regions[ref]))
			return nil
		})
	}
	for _, ref := range byClass[refLambda] {
		ref := ref
		g.Go(func() error {
			put(ref, r.resolveLambdaTags(gctx, profile, ref, regions[ref]))
			return nil
		})
	}
	for _, ref := range byClass[refLogs] {
		ref := ref
		g.Go(func() error {
			put(ref, r.resolveLogGroupTags(gctx, profile, ref, regions[ref]))
			return nil
		})
	}
	for _, ref := range byClass[refUnknown] {
		put(ref, nil)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *AWSRepositoryImpl) resolveEC2Tags(ctx context.Context, profile string, ids []string, put func(string, []entity.TagEntry)) {
	client, err := r.getServiceClient(ctx, profile, "", "ec2")
	if err != nil {
		for _, id := range ids {
			put(id, nil)
		}
		return
	}
	ec2Client := client.(*ec2.Client)

	tagsByID := make(map[string][]entity.TagEntry)
	input := &ec2.DescribeTagsInput{
		Filters: []ec2Types.Filter{
			{Name: aws.String("resource-id"), Values: ids},
		},
	}
	paginator := ec2.NewDescribeTagsPaginator(ec2Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			break
		}
		for _, tag := range page.Tags {
			if tag.ResourceId == nil || tag.Key == nil {
				continue
			}
			tagsByID[*tag.ResourceId] = append(tagsByID[*tag.ResourceId],
				entity.TagEntry{Key: *tag.Key, Value: aws.ToString(tag.Value)})
		}
	}

	for _, id := range ids {
		put(id, tagsByID[id])
	}
}

func (r *AWSRepositoryImpl) resolveELBTags(ctx context.Context, profile string, arns []string, regions map[string]string, put func(string, []entity.TagEntry)) {
	// All ELBs in one batch share a region in practice; fall back to the
	// first ref's region for the client.
	region := ""
	for _, arn := range arns {
		if regions[arn] != "" {
			region = regions[arn]
			break
		}
	}

	client, err := r.getServiceClient(ctx, profile, region, "elbv2")
	if err != nil {
		for _, arn := range arns {
			put(arn, nil)
		}
		return
	}
	elbClient := client.(*elasticloadbalancingv2.Client)

	out, err := elbClient.DescribeTags(ctx, &elasticloadbalancingv2.DescribeTagsInput{
		ResourceArns: arns,
	})
	if err != nil {
		for _, arn := range arns {
			put(arn, nil)
		}
		return
	}

	tagsByArn := make(map[string][]entity.TagEntry)
	for _, desc := range out.TagDescriptions {
		if desc.ResourceArn == nil {
			continue
		}
		for _, tag := range desc.Tags {
			if tag.Key == nil {
				continue
			}
			tagsByArn[*desc.ResourceArn] = append(tagsByArn[*desc.ResourceArn],
				entity.TagEntry{Key: *tag.Key, Value: aws.ToString(tag.Value)})
		}
	}
	for _, arn := range arns {
		put(arn, tagsByArn[arn])
	}
}

func (r *AWSRepositoryImpl) resolveS3Tags(ctx context.Context, profile, ref string) []entity.TagEntry {
	client, err := r.getServiceClient(ctx, profile, "", "s3")
	if err != nil {
		return nil
	}
	s3Client := client.(*s3.Client)

	// arn:aws:s3:::bucket-name
	bucket := ref
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		bucket = ref[idx+1:]
	}

	out, err := s3Client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil // untagged buckets return NoSuchTagSet
	}

	var tags []entity.TagEntry
	for _, tag := range out.TagSet {
		if tag.Key == nil {
			continue
		}
		tags = append(tags, entity.TagEntry{Key: *tag.Key, Value: aws.ToString(tag.Value)})
	}
	return tags
}

func (r *AWSRepositoryImpl) resolveRDSTags(ctx context.Context, profile, ref, region string) []entity.TagEntry {
	client, err := r.getServiceClient(ctx, profile, region, "rds")
	if err != nil {
		return nil
	}
	rdsClient := client.(*rds.Client)

	out, err := rdsClient.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
		ResourceName: aws.String(ref),
	})
	if err != nil {
		return nil
	}

	var tags []entity.TagEntry
	for _, tag := range out.TagList {
		if tag.Key == nil {
			continue
		}
		tags = append(tags, entity.TagEntry{Key: *tag.Key, Value: aws.ToString(tag.Value)})
	}
	return tags
}

func (r *AWSRepositoryImpl) resolveLambdaTags(ctx context.Context, profile, ref, region string) []entity.TagEntry {
	client, err := r.getServiceClient(ctx, profile, region, "lambda")
	if err != nil {
		return nil
	}
	lambdaClient := client.(*lambda.Client)

	out, err := lambdaClient.ListTags(ctx, &lambda.ListTagsInput{
		Resource: aws.String(ref),
	})
	if err != nil {
		return nil
	}

	var tags []entity.TagEntry
	for key, value := range out.Tags {
		tags = append(tags, entity.TagEntry{Key: key, Value: value})
	}
	return tags
}

func (r *AWSRepositoryImpl) resolveLogGroupTags(ctx context.Context, profile, ref, region string) []entity.TagEntry {
	client, err := r.getServiceClient(ctx, profile, region, "cloudwatchlogs")
	if err != nil {
		return nil
	}
	logsClient := client.(*cloudwatchlogs.Client)

	out, err := logsClient.ListTagsForResource(ctx, &cloudwatchlogs.ListTagsForResourceInput{
		ResourceArn: aws.String(ref),
	})
	if err != nil {
		return nil
	}

	var tags []entity.TagEntry
	for key, value := range out.Tags {
		tags = append(tags, entity.TagEntry{Key: key, Value: value})
	}
	return tags
}
