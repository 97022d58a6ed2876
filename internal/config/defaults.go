package config

import "github.com/dshills/cfnslim/pkg/types"

// divider is the comment rule that opens every section of the monolithic template
const divider = "# ==========================================\n  # "

// DefaultPreamble is rendered at the top of every split document
const DefaultPreamble = `AWSTemplateFormatVersion: "2010-09-09"
Transform: AWS::Serverless-2016-10-31
Description: {{ .Description }}

Parameters:
  Environment:
    Type: String
    Default: development
    AllowedValues:
      - development
      - production
    Description: Environment name

  AlarmEmail:
    Type: String
    Default: ""
    Description: Email address for CloudWatch alarms (optional)

  SESFromEmail:
    Type: String
    Default: "noreply@example.com"
    Description: Email address for sending notifications via SES

Conditions:
  IsProduction: !Equals [!Ref Environment, production]
  HasAlarmEmail: !Not [!Equals [!Ref AlarmEmail, ""]]

Globals:
  Function:
    Timeout: 30
    MemorySize: 1024
    Runtime: nodejs22.x
    Architectures: [arm64]
    Tracing: Active
    Environment:
      Variables:
        NODE_ENV: !Ref Environment
        XRAY_TRACING_ENABLED: "true"

`

// DefaultSections splits the monolithic template into its five service areas
func DefaultSections() []types.SectionSpec {
	return []types.SectionSpec{
		{
			Name:        "core-infrastructure",
			StartMarker: divider + "API Gateway Account Settings",
			EndMarker:   divider + "API Gateway for Service Boundaries",
			Description: "Core Infrastructure - Cognito, DynamoDB, S3, IAM",
		},
		{
			Name:        "api-gateway",
			StartMarker: divider + "API Gateway for Service Boundaries",
			EndMarker:   divider + "Enhanced EventBridge for Event-Driven Architecture",
			Description: "API Gateway Services and Resources",
		},
		{
			Name:        "event-driven",
			StartMarker: divider + "Enhanced EventBridge for Event-Driven Architecture",
			EndMarker:   divider + "AWS Secrets Manager for OAuth Credentials",
			Description: "Event-Driven Architecture - EventBridge, SQS, Lambda",
		},
		{
			Name:        "secrets-integrations",
			StartMarker: divider + "AWS Secrets Manager for OAuth Credentials",
			EndMarker:   divider + "CloudWatch Monitoring",
			Description: "Secrets Manager and Integration Services",
		},
		{
			Name:        "monitoring",
			StartMarker: divider + "CloudWatch Monitoring",
			EndMarker:   "Outputs:",
			Description: "CloudWatch Monitoring and Alarms",
		},
	}
}
